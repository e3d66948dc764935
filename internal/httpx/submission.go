package httpx

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/validation"
)

// ProductFields is what an artisan submits for a new product, whatever the body shape.
type ProductFields struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Language    string
}

// ProductSubmission is either a FormSubmission or a JSONSubmission.
type ProductSubmission interface {
	productFields() ProductFields
}

// FormSubmission came as multipart/form-data. Image is nil when no file part was sent.
type FormSubmission struct {
	Fields ProductFields
	Image  *multipart.FileHeader
}

type JSONSubmission struct {
	Fields ProductFields
}

func (s FormSubmission) productFields() ProductFields { return s.Fields }
func (s JSONSubmission) productFields() ProductFields { return s.Fields }

var errBodyTooLarge = errors.New("request body too large")

type productForm struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Price       string `json:"price" validate:"required"`
	Language    string `json:"language"`
}

type productJSON struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Category    string           `json:"category" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Language    string           `json:"language"`
}

// readSubmission resolves the body once. maxBytes bounds the whole multipart body.
func readSubmission(w http.ResponseWriter, r *http.Request, maxBytes int64) (ProductSubmission, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req productJSON
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		price, err := market.ParsePrice(req.Price.String())
		if err != nil {
			return nil, err
		}
		return JSONSubmission{Fields: ProductFields{
			Name: req.Name, Description: req.Description, Category: req.Category,
			Price: price, Language: languageOrDefault(req.Language),
		}}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}
	form := productForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Price:       r.FormValue("price"),
		Language:    r.FormValue("language"),
	}
	if err := validation.Struct(&form); err != nil {
		return nil, err
	}
	price, err := market.ParsePrice(form.Price)
	if err != nil {
		return nil, err
	}
	sub := FormSubmission{Fields: ProductFields{
		Name: form.Name, Description: form.Description, Category: form.Category,
		Price: price, Language: languageOrDefault(form.Language),
	}}
	if files := r.MultipartForm.File["image"]; len(files) > 0 && files[0].Filename != "" {
		sub.Image = files[0]
	}
	return sub, nil
}

func languageOrDefault(lang string) string {
	if lang == "" {
		return "en"
	}
	return lang
}
