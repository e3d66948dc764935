package market

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// AddToCart inserts the line or adds qty to the existing one in a single statement.
func (r *Repo) AddToCart(ctx context.Context, buyerID, productID int64, qty int) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_lines (buyer_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (buyer_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity`,
		buyerID, productID, qty)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("add to cart: product %d: %w", productID, ErrNotFound)
		}
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

// RemoveCartLine deletes the line only if it belongs to the buyer.
func (r *Repo) RemoveCartLine(ctx context.Context, buyerID, lineID int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1 AND buyer_id = $2`, lineID, buyerID)
	return err
}

func (r *Repo) UpdateCartQuantity(ctx context.Context, buyerID, lineID int64, qty int) error {
	_, err := r.DB.Exec(ctx, `UPDATE cart_lines SET quantity = $3 WHERE id = $1 AND buyer_id = $2`, lineID, buyerID, qty)
	return err
}

func (r *Repo) Cart(ctx context.Context, buyerID int64) (Cart, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.id, c.quantity, p.id, p.name, p.description, p.price::text,
		       COALESCE(p.image_path, ''), a.name, c.added_at
		FROM cart_lines c
		JOIN products p ON p.id = c.product_id
		JOIN artisans a ON a.id = p.artisan_id
		WHERE c.buyer_id = $1
		ORDER BY c.added_at DESC, c.id DESC`, buyerID)
	if err != nil {
		return Cart{}, err
	}
	defer rows.Close()

	var lines []CartLine
	for rows.Next() {
		var (
			l     CartLine
			price string
		)
		if err := rows.Scan(&l.ID, &l.Quantity, &l.ProductID, &l.Name, &l.Description, &price, &l.ImagePath, &l.ArtisanName, &l.AddedAt); err != nil {
			return Cart{}, err
		}
		if l.Price, err = decimal.NewFromString(price); err != nil {
			return Cart{}, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return Cart{}, err
	}
	return NewCart(lines), nil
}
