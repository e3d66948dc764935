package market

import (
	"context"
	"fmt"
)

// RecordInteraction appends one event. A repeated EventID is ignored.
func (r *Repo) RecordInteraction(ctx context.Context, in Interaction) error {
	if in.Kind == "" {
		in.Kind = InteractionView
	}
	var eventID any
	if in.EventID != "" {
		eventID = in.EventID
	}
	var at any
	if !in.At.IsZero() {
		at = in.At
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO interactions (buyer_id, product_id, kind, event_id, created_at)
		VALUES ($1, $2, $3, $4::text::uuid, COALESCE($5::timestamptz, now()))
		ON CONFLICT (event_id) DO NOTHING`,
		in.BuyerID, in.ProductID, in.Kind, eventID, at)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("record interaction: %w", ErrNotFound)
		}
		return fmt.Errorf("record interaction: %w", err)
	}
	return nil
}

// RecentViews returns the buyer's latest views, newest first.
func (r *Repo) RecentViews(ctx context.Context, buyerID int64, limit int) ([]ViewedProduct, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id, p.category, p.name
		FROM interactions i
		JOIN products p ON p.id = i.product_id
		WHERE i.buyer_id = $1 AND i.kind = $2
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT $3`, buyerID, InteractionView, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ViewedProduct{}
	for rows.Next() {
		var v ViewedProduct
		if err := rows.Scan(&v.ProductID, &v.Category, &v.Name); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
