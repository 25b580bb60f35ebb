package reviews

import (
	"context"
	"database/sql"

	"github.com/gamezilla/storefront/internal/domain"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) ListForGame(ctx context.Context, gameID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT review_id, user_id, game_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE game_id = $1
		ORDER BY created_at DESC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	reviews := []domain.Review{}
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(&review.ID, &review.UserID, &review.GameID, &review.Rating,
			&review.Comment, &review.CreatedAt, &review.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *ReviewRepository) Get(ctx context.Context, reviewID int64) (*domain.Review, error) {
	review := &domain.Review{}
	err := r.db.QueryRowContext(ctx, `
		SELECT review_id, user_id, game_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE review_id = $1
	`, reviewID).Scan(&review.ID, &review.UserID, &review.GameID, &review.Rating,
		&review.Comment, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return review, nil
}

func (r *ReviewRepository) Add(ctx context.Context, userID, gameID int64, rating int, comment *string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (user_id, game_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, userID, gameID, rating, comment)
	return err
}

// UpdateOwned changes a review only when it belongs to the given user; a
// false return means the review exists but is owned by someone else, or does
// not exist at all.
func (r *ReviewRepository) UpdateOwned(ctx context.Context, reviewID, userID int64, rating int, comment *string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW()
		WHERE review_id = $3 AND user_id = $4
	`, rating, comment, reviewID, userID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *ReviewRepository) DeleteOwned(ctx context.Context, reviewID, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM reviews
		WHERE review_id = $1 AND user_id = $2
	`, reviewID, userID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
