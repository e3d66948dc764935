package market

import "context"

func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.DB.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM artisans),
		       (SELECT COUNT(*) FROM buyers),
		       (SELECT COUNT(*) FROM products),
		       (SELECT COUNT(*) FROM cart_lines)`,
	).Scan(&s.Artisans, &s.Buyers, &s.Products, &s.CartLines)
	return s, err
}
