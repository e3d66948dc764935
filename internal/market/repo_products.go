package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortPriceLow  Sort = "price_low"
	SortPriceHigh Sort = "price_high"
	SortName      Sort = "name"
)

var sortClauses = map[Sort]string{
	SortNewest:    ` ORDER BY p.created_at DESC, p.id DESC`,
	SortOldest:    ` ORDER BY p.created_at ASC, p.id ASC`,
	SortPriceLow:  ` ORDER BY p.price ASC, p.id ASC`,
	SortPriceHigh: ` ORDER BY p.price DESC, p.id DESC`,
	SortName:      ` ORDER BY p.name ASC, p.id ASC`,
}

// ParseSort falls back to newest for anything it does not know.
func ParseSort(s string) Sort {
	if _, ok := sortClauses[Sort(s)]; ok {
		return Sort(s)
	}
	return SortNewest
}

const CategoryAll = "all"

type BrowseFilter struct {
	Category string // "all" or empty: no filter
	Search   string // substring of name or description
	Sort     Sort
}

func (r *Repo) CreateProduct(ctx context.Context, np NewProduct) (Product, error) {
	if np.Language == "" {
		np.Language = "en"
	}
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products (artisan_id, name, description, category, price, ai_story, language, image_path)
		VALUES ($1, $2, $3, $4, $5::numeric, NULLIF($6, ''), $7, NULLIF($8, ''))
		RETURNING id`,
		np.ArtisanID, np.Name, np.Description, np.Category, np.Price.StringFixed(2), np.AIStory, np.Language, np.ImagePath,
	).Scan(&id)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return Product{}, fmt.Errorf("create product: artisan %d: %w", np.ArtisanID, ErrNotFound)
		}
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return r.GetProduct(ctx, id)
}

func (r *Repo) GetProduct(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *Repo) ProductsByArtisan(ctx context.Context, artisanID int64) ([]Product, error) {
	return collectProducts(r.DB.Query(ctx,
		productSelect+` WHERE p.artisan_id = $1 ORDER BY p.created_at DESC, p.id DESC`, artisanID))
}

func (r *Repo) Browse(ctx context.Context, f BrowseFilter) ([]Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" && f.Category != CategoryAll {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", n, n))
	}
	q := productSelect
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += sortClauses[ParseSort(string(f.Sort))]
	return collectProducts(r.DB.Query(ctx, q, args...))
}

func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) RecentProducts(ctx context.Context, limit int) ([]Product, error) {
	return collectProducts(r.DB.Query(ctx,
		productSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT $1`, limit))
}

// DeleteProduct removes the product together with its cart lines and interactions.
func (r *Repo) DeleteProduct(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ProductsByIDs keeps the order of ids; unknown ids are skipped.
func (r *Repo) ProductsByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	return collectProducts(r.DB.Query(ctx,
		productSelect+` WHERE p.id = ANY($1) ORDER BY array_position($1::bigint[], p.id)`, ids))
}

func (r *Repo) RandomProducts(ctx context.Context, limit int) ([]Product, error) {
	return collectProducts(r.DB.Query(ctx, productSelect+` ORDER BY random() LIMIT $1`, limit))
}

func (r *Repo) RandomProductsInCategories(ctx context.Context, categories []string, limit int) ([]Product, error) {
	if len(categories) == 0 {
		return []Product{}, nil
	}
	return collectProducts(r.DB.Query(ctx,
		productSelect+` WHERE p.category = ANY($1) ORDER BY random() LIMIT $2`, categories, limit))
}

// SearchProducts requires every term to appear in the name, description or category.
func (r *Repo) SearchProducts(ctx context.Context, terms []string, limit int) ([]Product, error) {
	var (
		where []string
		args  []any
	)
	for _, t := range terms {
		args = append(args, likePattern(t))
		n := len(args)
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d OR p.category ILIKE $%d)", n, n, n))
	}
	q := productSelect
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY p.id LIMIT $%d`, len(args))
	return collectProducts(r.DB.Query(ctx, q, args...))
}
