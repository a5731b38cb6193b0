package transport

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/view"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxFormBytes bounds the add-product form body
const maxFormBytes = 64 << 10

// ProductHandler serves the storefront pages
type ProductHandler struct {
	productService service.ProductService
	views          *view.Renderer
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, views *view.Renderer, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		views:          views,
		logger:         logger,
	}
}

// RegisterRoutes registers the storefront routes. Mutating routes pass through limiter.
func (h *ProductHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	r.Get("/", h.Index)
	r.Get("/add-product", h.AddForm)

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}
		r.Post("/add-product", h.AddProduct)
		r.Get("/buy/{id}", h.Buy)
	})
}

// RegisterAPIRoutes registers the read-only JSON endpoints
func (h *ProductHandler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/products", h.ListJSON)
}

// Index renders the in-stock listing
func (h *ProductHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	products, err := h.productService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))

		// Redirecting a failed listing back to itself would loop forever
		if query.Has("errors") {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		redirectWithMessage(w, r, "/", "errors", service.Messages(err))
		return
	}

	h.render(w, view.PageIndex, view.PageData{
		Title:    "Products",
		Errors:   query.Get("errors"),
		Success:  query.Get("success"),
		Products: products,
	})
}

// AddForm renders the add-product form
func (h *ProductHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	data := view.PageData{
		Title:  "Add product",
		Errors: r.URL.Query().Get("errors"),
	}

	// Suggestions only; the form still works without them
	categories, err := h.productService.Categories(r.Context())
	if err != nil {
		h.logger.Warn("Failed to load category suggestions", zap.Error(err))
	} else {
		data.Categories = categories
	}

	h.render(w, view.PageAdd, data)
}

// AddProduct handles the add-product form submission
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Debug("Add product form parse failed", zap.Error(err))
		redirectWithMessage(w, r, "/add-product", "errors", []string{"Invalid form submission"})
		return
	}

	product, err := h.productService.AddProduct(r.Context(), decodeProductForm(r.PostForm))
	if err != nil {
		h.logFailure("Add product failed", err)
		redirectWithMessage(w, r, "/add-product", "errors", service.Messages(err))
		return
	}

	h.logger.Info("Product added",
		zap.Int64("product_id", product.ID),
		zap.Int64("category_id", product.CategoryID),
	)
	redirectWithMessage(w, r, "/", "success", []string{service.MsgProductAdded})
}

// Buy takes one unit of the product named in the path
func (h *ProductHandler) Buy(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		// An unparsable ID cannot name an existing product
		redirectWithMessage(w, r, "/", "errors", []string{service.MsgNotFound})
		return
	}

	product, err := h.productService.Purchase(r.Context(), id)
	if err != nil {
		h.logFailure("Purchase failed", err, zap.Int64("product_id", id))
		redirectWithMessage(w, r, "/", "errors", service.Messages(err))
		return
	}

	h.logger.Info("Product bought",
		zap.Int64("product_id", product.ID),
		zap.Int("stock_left", product.Stock),
	)
	redirectWithMessage(w, r, "/", "success", []string{service.MsgProductBought})
}

// ListJSON returns the in-stock listing as JSON
func (h *ProductHandler) ListJSON(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusInternalServerError, "failed to list products", service.Messages(err))
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

func (h *ProductHandler) render(w http.ResponseWriter, page string, data view.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Render(w, page, data); err != nil {
		h.logger.Error("Failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// logFailure logs store failures as errors and business rule rejections at debug
func (h *ProductHandler) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("kind", string(service.KindOf(err))), zap.Error(err))
	if service.KindOf(err) == service.KindDataStore {
		h.logger.Error(msg, fields...)
		return
	}
	h.logger.Debug(msg, fields...)
}

// redirectWithMessage sends the browser to path with the messages joined into one query value
func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, key string, messages []string) {
	target := path + "?" + url.Values{key: {strings.Join(messages, ", ")}}.Encode()
	http.Redirect(w, r, target, http.StatusSeeOther)
}
