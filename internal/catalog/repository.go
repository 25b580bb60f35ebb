package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gamezilla/storefront/internal/domain"
)

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

type ListFilter struct {
	Genre    string
	Platform string
	Sort     string
}

const gameColumns = `g.game_id, g.title, g.description, COALESCE(g.price, 0), g.stock_quantity,
	       g.developer, g.publisher, g.release_date, g.platform, g.genre, g.is_featured,
	       gi.image_url, g.created_at, g.updated_at`

// List returns the catalog with optional genre/platform filters. Sort keys
// are whitelisted; anything else falls back to featured-first, newest-first.
func (r *GameRepository) List(ctx context.Context, filter ListFilter) ([]domain.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		LEFT JOIN game_images gi ON g.game_id = gi.game_id AND gi.is_primary
		WHERE 1=1`

	args := []any{}
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		query += fmt.Sprintf(" AND g.genre = $%d", len(args))
	}
	if filter.Platform != "" {
		args = append(args, filter.Platform)
		query += fmt.Sprintf(" AND g.platform = $%d", len(args))
	}

	switch filter.Sort {
	case "price_asc":
		query += " ORDER BY g.price ASC"
	case "price_desc":
		query += " ORDER BY g.price DESC"
	case "release_date_desc":
		query += " ORDER BY g.release_date DESC"
	case "title_asc":
		query += " ORDER BY g.title ASC"
	default:
		query += " ORDER BY g.is_featured DESC, g.game_id DESC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	games := []domain.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return games, nil
}

func (r *GameRepository) Get(ctx context.Context, gameID int64) (*domain.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games g
		LEFT JOIN game_images gi ON g.game_id = gi.game_id AND gi.is_primary
		WHERE g.game_id = $1
	`, gameID)

	game, err := scanGame(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &game, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (domain.Game, error) {
	var game domain.Game
	err := s.Scan(&game.ID, &game.Title, &game.Description, &game.Price, &game.StockQuantity,
		&game.Developer, &game.Publisher, &game.ReleaseDate, &game.Platform, &game.Genre,
		&game.IsFeatured, &game.ImageURL, &game.CreatedAt, &game.UpdatedAt)
	return game, err
}

func (r *GameRepository) Genres(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, `SELECT DISTINCT genre FROM games WHERE genre IS NOT NULL ORDER BY genre`)
}

func (r *GameRepository) Platforms(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, `SELECT DISTINCT platform FROM games WHERE platform IS NOT NULL ORDER BY platform`)
}

func (r *GameRepository) distinctColumn(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

type GameParams struct {
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Price         float64    `json:"price"`
	StockQuantity int        `json:"stock_quantity"`
	Developer     *string    `json:"developer"`
	Publisher     *string    `json:"publisher"`
	ReleaseDate   *time.Time `json:"release_date"`
	Platform      *string    `json:"platform"`
	Genre         *string    `json:"genre"`
	IsFeatured    bool       `json:"is_featured"`
	ImageURL      *string    `json:"image_url"`
	CategoryIDs   []int64    `json:"category_ids"`
}

// Create inserts the game and, when an image URL is supplied, its primary
// image row.
func (r *GameRepository) Create(ctx context.Context, p GameParams) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var gameID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO games (title, description, price, stock_quantity, developer, publisher, release_date, platform, genre, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING game_id
	`, p.Title, p.Description, p.Price, p.StockQuantity, p.Developer, p.Publisher,
		p.ReleaseDate, p.Platform, p.Genre, p.IsFeatured).Scan(&gameID)
	if err != nil {
		return 0, err
	}

	if p.ImageURL != nil && *p.ImageURL != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO game_images (game_id, image_url, is_primary, created_at)
			VALUES ($1, $2, TRUE, NOW())
		`, gameID, *p.ImageURL)
		if err != nil {
			return 0, err
		}
	}

	if err := replaceCategories(ctx, tx, gameID, p.CategoryIDs); err != nil {
		return 0, err
	}

	return gameID, tx.Commit()
}

func replaceCategories(ctx context.Context, tx *sql.Tx, gameID int64, categoryIDs []int64) error {
	if categoryIDs == nil {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_categories WHERE game_id = $1`, gameID); err != nil {
		return err
	}

	for _, categoryID := range categoryIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO game_categories (game_id, category_id) VALUES ($1, $2)
		`, gameID, categoryID)
		if err != nil {
			return err
		}
	}

	return nil
}

// Update rewrites the game row and, when category ids are supplied, replaces
// its category links in the same transaction.
func (r *GameRepository) Update(ctx context.Context, gameID int64, p GameParams) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE games
		SET title = $1, description = $2, price = $3, stock_quantity = $4, developer = $5,
		    publisher = $6, release_date = $7, platform = $8, genre = $9, is_featured = $10,
		    updated_at = NOW()
		WHERE game_id = $11
	`, p.Title, p.Description, p.Price, p.StockQuantity, p.Developer, p.Publisher,
		p.ReleaseDate, p.Platform, p.Genre, p.IsFeatured, gameID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected == 0 {
		return false, nil
	}

	if err := replaceCategories(ctx, tx, gameID, p.CategoryIDs); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (r *GameRepository) Delete(ctx context.Context, gameID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM games WHERE game_id = $1
	`, gameID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
