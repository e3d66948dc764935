package market

import (
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repo is the PostgreSQL store for every marketplace table.
type Repo struct{ DB *pgxpool.Pool }

const productSelect = `
	SELECT p.id, p.artisan_id, a.name, p.name, p.description, p.category, p.price::text,
	       COALESCE(p.ai_story, ''), p.language, COALESCE(p.image_path, ''), p.created_at
	FROM products p
	JOIN artisans a ON a.id = p.artisan_id`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p     Product
		price string
	)
	if err := row.Scan(&p.ID, &p.ArtisanID, &p.ArtisanName, &p.Name, &p.Description, &p.Category,
		&price, &p.AIStory, &p.Language, &p.ImagePath, &p.CreatedAt); err != nil {
		return Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, err
	}
	p.Price = d
	return p, nil
}

func collectProducts(rows pgx.Rows, err error) ([]Product, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring ILIKE match with wildcards in s taken literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
