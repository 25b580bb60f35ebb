package cart

import (
	"context"
	"database/sql"

	"github.com/gamezilla/storefront/internal/domain"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetByUser returns the user's cart and its line items joined with live
// catalog prices. A user with no cart yet gets (nil, empty, nil).
func (r *CartRepository) GetByUser(ctx context.Context, userID int64) (*domain.Cart, []domain.CartItem, error) {
	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, `
		SELECT cart_id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, []domain.CartItem{}, nil
		}
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.cart_item_id, ci.cart_id, ci.game_id, ci.quantity, ci.added_at,
		       g.title, COALESCE(g.price, 0), COALESCE(g.platform, ''), gi.image_url
		FROM cart_items ci
		JOIN games g ON ci.game_id = g.game_id
		LEFT JOIN game_images gi ON g.game_id = gi.game_id AND gi.is_primary
		WHERE ci.cart_id = $1
	`, cart.ID)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.GameID, &item.Quantity, &item.AddedAt,
			&item.Title, &item.UnitPrice, &item.Platform, &item.ImageURL); err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return cart, items, nil
}

// AddItem creates the user's cart on first use, then upserts the line item:
// re-adding a game increments its quantity instead of duplicating the row.
func (r *CartRepository) AddItem(ctx context.Context, userID, gameID int64, quantity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var cartID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO carts (user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING cart_id
	`, userID).Scan(&cartID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, game_id, quantity, added_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (cart_id, game_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`, cartID, gameID, quantity)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateItem sets a line item's quantity and touches the owning cart's
// updated_at timestamp.
func (r *CartRepository) UpdateItem(ctx context.Context, cartItemID int64, quantity int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $1, updated_at = NOW()
		WHERE cart_item_id = $2
	`, quantity, cartItemID)
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

	_, err = tx.ExecContext(ctx, `
		UPDATE carts SET updated_at = NOW()
		WHERE cart_id = (SELECT cart_id FROM cart_items WHERE cart_item_id = $1)
	`, cartItemID)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartItemID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE cart_item_id = $1
	`, cartItemID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// Clear removes every line item from the user's cart; the cart row itself
// is kept.
func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id IN (SELECT cart_id FROM carts WHERE user_id = $1)
	`, userID)
	return err
}
