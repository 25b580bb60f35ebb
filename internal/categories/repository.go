package categories

import (
	"context"
	"database/sql"

	"github.com/gamezilla/storefront/internal/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category_id, name, description
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)
	`, name).Scan(&exists)
	return exists, err
}

func (r *CategoryRepository) Create(ctx context.Context, name string, description *string) (int64, error) {
	var categoryID int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING category_id
	`, name, description).Scan(&categoryID)
	return categoryID, err
}

func (r *CategoryRepository) Update(ctx context.Context, categoryID int64, name string, description *string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, description = $2
		WHERE category_id = $3
	`, name, description, categoryID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM categories WHERE category_id = $1
	`, categoryID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
