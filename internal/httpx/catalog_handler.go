package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-artisan-market/internal/activity"
	"github.com/ariefcatur/go-artisan-market/internal/auth"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/upload"
)

type CatalogStore interface {
	ArtisanName(ctx context.Context, artisanID int64) (string, error)
	CreateProduct(ctx context.Context, np market.NewProduct) (market.Product, error)
	GetProduct(ctx context.Context, id int64) (market.Product, error)
	Browse(ctx context.Context, f market.BrowseFilter) ([]market.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// Narrator writes product narratives and translations. Both never fail; they fall back.
type Narrator interface {
	GenerateNarrative(ctx context.Context, description, category, authorName string) string
	Translate(ctx context.Context, text, target, source string) string
}

type ProductEvents interface {
	ProductCreated(requestID string, p market.Product)
	ProductDeleted(requestID string, productID, adminID int64)
}

type CatalogHandler struct {
	Store    CatalogStore
	AI       Narrator
	Uploads  *upload.Store
	Views    activity.Recorder
	Events   ProductEvents
	Currency market.Currency
}

type GenerateStoryReq struct {
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

type productCreatedResp struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Product productView `json:"product"`
}

type browseResp struct {
	Products        []productView `json:"products"`
	Categories      []string      `json:"categories"`
	CurrentCategory string        `json:"current_category"`
	CurrentSearch   string        `json:"current_search"`
	CurrentSort     market.Sort   `json:"current_sort"`
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/uploads/{filename}", h.serveUpload)

	r.Group(func(r chi.Router) {
		r.Use(requireJSON(market.RoleArtisan))
		r.Post("/add_product", h.addProduct)
		r.Post("/generate_story", h.generateStory)
	})
	r.Group(func(r chi.Router) {
		r.Use(requirePage(market.RoleNone))
		r.Get("/view_product/{id}", h.viewProduct)
		r.Get("/browse", h.browse)
	})
}

func (h *CatalogHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	sub, err := readSubmission(w, r, h.Uploads.MaxBytes())
	if errors.Is(err, errBodyTooLarge) {
		writeResult(w, http.StatusRequestEntityTooLarge, false, "File too large")
		return
	}
	if err != nil {
		badRequest(w, r, err)
		return
	}
	fields := sub.productFields()

	var imagePath string
	if form, ok := sub.(FormSubmission); ok && form.Image != nil {
		imagePath, err = h.saveImage(r, form)
		if errors.Is(err, upload.ErrTooLarge) {
			writeResult(w, http.StatusRequestEntityTooLarge, false, "File too large")
			return
		}
		if err != nil {
			internalError(w, r, err, "Could not store image")
			return
		}
	}
	created := false
	defer func() {
		if imagePath != "" && !created {
			h.discardImage(r, imagePath)
		}
	}()

	ctx := r.Context()
	artisanName, err := h.artisanName(ctx, id.UserID)
	if err != nil {
		internalError(w, r, err, "Could not add product")
		return
	}

	story := h.AI.GenerateNarrative(ctx, fields.Description, fields.Category, artisanName)
	name, description := fields.Name, fields.Description
	if fields.Language != "en" {
		description = h.AI.Translate(ctx, description, fields.Language, "en")
		name = h.AI.Translate(ctx, name, fields.Language, "en")
	}

	dbCtx, cancel := storeContext(r, 5*time.Second)
	defer cancel()

	p, err := h.Store.CreateProduct(dbCtx, market.NewProduct{
		ArtisanID:   id.UserID,
		Name:        name,
		Description: description,
		Category:    fields.Category,
		Price:       fields.Price,
		AIStory:     story,
		Language:    fields.Language,
		ImagePath:   imagePath,
	})
	if err != nil {
		internalError(w, r, err, "Could not add product")
		return
	}
	created = true
	h.Events.ProductCreated(middleware.GetReqID(ctx), p)

	writeJSON(w, http.StatusOK, productCreatedResp{
		Success: true,
		Message: "Product added successfully",
		Product: viewProduct(h.Currency, p),
	})
}

// saveImage stores the uploaded file. A disallowed file type is not an error:
// the product is created without an image.
func (h *CatalogHandler) saveImage(r *http.Request, form FormSubmission) (string, error) {
	if !h.Uploads.Allowed(form.Image.Filename) {
		logging.Ctx(r.Context()).Info().Str("filename", form.Image.Filename).Msg("image type not allowed, skipping")
		return "", nil
	}
	f, err := form.Image.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	name, err := h.Uploads.Save(form.Image.Filename, f)
	if errors.Is(err, upload.ErrNotAllowed) || errors.Is(err, upload.ErrBadName) {
		return "", nil
	}
	return name, err
}

func (h *CatalogHandler) discardImage(r *http.Request, name string) {
	if err := h.Uploads.Remove(name); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("image", name).Msg("remove orphaned upload")
	}
}

func (h *CatalogHandler) artisanName(ctx context.Context, artisanID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	name, err := h.Store.ArtisanName(ctx, artisanID)
	if errors.Is(err, market.ErrNotFound) {
		return "", nil
	}
	return name, err
}

func (h *CatalogHandler) generateStory(w http.ResponseWriter, r *http.Request) {
	var req GenerateStoryReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	artisanName, err := h.artisanName(r.Context(), auth.FromContext(r.Context()).UserID)
	if err != nil {
		internalError(w, r, err, "Could not generate story")
		return
	}
	story := h.AI.GenerateNarrative(r.Context(), req.Description, req.Category, artisanName)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "story": story})
}

func (h *CatalogHandler) viewProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "id")
	if !ok {
		redirect(w, r, "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.GetProduct(ctx, productID)
	if errors.Is(err, market.ErrNotFound) {
		redirect(w, r, "/")
		return
	}
	if err != nil {
		internalError(w, r, err, "Could not load product")
		return
	}

	if id := auth.FromContext(ctx); id.Is(market.RoleBuyer) {
		if err := h.Views.RecordView(ctx, id.UserID, p.ID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int64("product_id", p.ID).Msg("record view")
		}
	}
	writeJSON(w, http.StatusOK, viewProduct(h.Currency, p))
}

func (h *CatalogHandler) browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := market.BrowseFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     market.ParseSort(q.Get("sort")),
	}
	if f.Category == "" {
		f.Category = market.CategoryAll
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.Store.Browse(ctx, f)
	if err != nil {
		internalError(w, r, err, "Could not load products")
		return
	}
	categories, err := h.Store.Categories(ctx)
	if err != nil {
		internalError(w, r, err, "Could not load categories")
		return
	}
	writeJSON(w, http.StatusOK, browseResp{
		Products:        viewProducts(h.Currency, products),
		Categories:      categories,
		CurrentCategory: f.Category,
		CurrentSearch:   f.Search,
		CurrentSort:     f.Sort,
	})
}

func (h *CatalogHandler) serveUpload(w http.ResponseWriter, r *http.Request) {
	path, err := h.Uploads.Path(chi.URLParam(r, "filename"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
