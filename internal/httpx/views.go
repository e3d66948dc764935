package httpx

import (
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-artisan-market/internal/market"
)

type productView struct {
	market.Product
	DisplayPrice string `json:"display_price"`
	ImageURL     string `json:"image_url,omitempty"`
}

func imageURL(name string) string {
	if name == "" {
		return ""
	}
	return "/uploads/" + url.PathEscape(name)
}

func viewProduct(cur market.Currency, p market.Product) productView {
	return productView{Product: p, DisplayPrice: cur.Format(p.Price), ImageURL: imageURL(p.ImagePath)}
}

func viewProducts(cur market.Currency, ps []market.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewProduct(cur, p))
	}
	return out
}

type cartLineView struct {
	market.CartLine
	Subtotal        decimal.Decimal `json:"subtotal"`
	DisplayPrice    string          `json:"display_price"`
	DisplaySubtotal string          `json:"display_subtotal"`
	ImageURL        string          `json:"image_url,omitempty"`
}

type cartView struct {
	Lines        []cartLineView  `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	DisplayTotal string          `json:"display_total"`
	Items        int             `json:"items"`
}

func viewCart(cur market.Currency, c market.Cart) cartView {
	v := cartView{Lines: make([]cartLineView, 0, len(c.Lines)), Total: c.Total, DisplayTotal: cur.Format(c.Total)}
	for _, l := range c.Lines {
		sub := l.Subtotal()
		v.Lines = append(v.Lines, cartLineView{
			CartLine:        l,
			Subtotal:        sub,
			DisplayPrice:    cur.Format(l.Price),
			DisplaySubtotal: cur.Format(sub),
			ImageURL:        imageURL(l.ImagePath),
		})
		v.Items += l.Quantity
	}
	return v
}
