// Package dispatch maps storefront gestures to store mutations and re-renders.
package dispatch

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/LingaMahesh11/Style-Spot/internal/catalog"
	"github.com/LingaMahesh11/Style-Spot/internal/filter"
	"github.com/LingaMahesh11/Style-Spot/internal/middleware"
	"github.com/LingaMahesh11/Style-Spot/internal/observability"
	"github.com/LingaMahesh11/Style-Spot/internal/render"
	"github.com/LingaMahesh11/Style-Spot/internal/seo"
	"github.com/LingaMahesh11/Style-Spot/internal/store"
)

const (
	defaultTitle     = "Style Spot"
	searchParam      = "q"
	suggestionLimit  = 10
	triggerHeader    = "HX-Trigger"
	detailOpenEvent  = "detail:open"
	detailCloseEvent = "detail:close"
)

// Dependencies wires the dispatcher to the catalog, the session stores and the templates.
type Dependencies struct {
	Index     *catalog.Index
	Stores    *store.Registry
	Templates *render.Templates
	Title     string
	// BaseURL is the public origin used for canonical links. Empty omits them.
	BaseURL string
}

// Handlers serves the storefront page and its htmx fragments.
type Handlers struct {
	index     *catalog.Index
	stores    *store.Registry
	templates *render.Templates
	title     string
	baseURL   string
}

// New builds the handlers. A nil index behaves as an empty catalog.
func New(deps Dependencies) *Handlers {
	index := deps.Index
	if index == nil {
		index = catalog.NewIndex(nil)
	}
	stores := deps.Stores
	if stores == nil {
		stores = store.NewRegistry(0, 0, nil)
	}
	templates := deps.Templates
	if templates == nil {
		templates = render.MustParseTemplates()
	}
	title := strings.TrimSpace(deps.Title)
	if title == "" {
		title = defaultTitle
	}
	return &Handlers{
		index:     index,
		stores:    stores,
		templates: templates,
		title:     title,
		baseURL:   strings.TrimRight(strings.TrimSpace(deps.BaseURL), "/"),
	}
}

// Routes registers every storefront route on r. Session and CSRF middleware must already be installed.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/", h.Page)
	r.Get("/grid", h.Grid)
	r.With(middleware.RequireHTMX).Get("/search/suggest", h.Suggest)
	r.Post("/cart/{id}", h.CardCart)
	r.Post("/wishlist/{id}", h.Wishlist)
	r.With(middleware.RequireHTMX).Get("/products/{id}", h.Detail)
	r.With(middleware.RequireHTMX).Get("/products/{id}/zoom", h.Zoom)
	r.Post("/products/{id}/cart", h.DetailCart)
	r.With(middleware.RequireHTMX).Get("/cart", h.CartPanel)
	r.With(middleware.RequireHTMX).Get("/wishlist", h.WishlistPanel)
}

// Page renders the full storefront with the grid narrowed by any search and category parameters.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	snap := h.storeFor(r).Snapshot()
	query := r.URL.Query()
	sel := filter.FromValues(query)

	grid, ok := h.grid(query.Get(searchParam), sel, snap)
	if !ok {
		grid, _ = h.grid("", sel, snap)
	}

	products := h.index.Products()
	view := render.PageView{
		Title: h.title,
		Meta:  seo.Storefront(h.title, h.baseURL, products),
		StructuredData: []template.JS{
			seo.JSON(seo.WebSite(h.title, h.origin("/"), h.origin("/?q="))),
			seo.JSON(seo.ItemList(products)),
		},
		Grid:       grid,
		Categories: render.Categories(h.index.Categories(), sel.Has),
		Query:      strings.TrimSpace(query.Get(searchParam)),
		Badge:      render.Badge(snap.Count),
		Cart:       render.CartPanel(snap),
		Wishlist:   render.WishlistPanel(snap),
		CSRFToken:  middleware.CSRFToken(r.Context()),
	}
	templ.Handler(h.templates.Component(render.TemplatePage, view)).ServeHTTP(w, r)
}

// Grid re-renders the product grid for a search value and the checked categories.
// A search value that matches nothing leaves the current grid in place.
func (h *Handlers) Grid(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsHTMX(r.Context()) {
		target := "/"
		if raw := r.URL.RawQuery; raw != "" {
			target += "?" + raw
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	query := r.URL.Query()
	grid, ok := h.grid(query.Get(searchParam), filter.FromValues(query), h.storeFor(r).Snapshot())
	if !ok {
		observability.FromContext(r.Context()).Debug("search resolved to nothing", zap.String("q", query.Get(searchParam)))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	templ.Handler(h.templates.Component(render.TemplateGrid, grid)).ServeHTTP(w, r)
}

// Suggest returns the datalist options for a typed search term.
func (h *Handlers) Suggest(w http.ResponseWriter, r *http.Request) {
	values := h.index.Suggest(r.URL.Query().Get(searchParam), suggestionLimit)
	templ.Handler(h.templates.Component(render.TemplateSuggestions, render.SuggestionsView{Values: values})).ServeHTTP(w, r)
}

// CardCart applies a card control's add or remove action and re-renders the control from the store.
func (h *Handlers) CardCart(w http.ResponseWriter, r *http.Request) {
	product, ok := h.product(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}

	st := h.storeFor(r)
	logger := observability.FromContext(r.Context()).With(zap.String("product", product.ID))
	switch r.PostForm.Get("action") {
	case render.ActionAdd:
		qty := parseQuantity(r.PostForm.Get("quantity"))
		if st.AddToCart(lineItem(product, qty)) {
			logger.Info("cart item added", zap.Int("quantity", qty))
		}
	case render.ActionRemove:
		if st.RemoveFromCart(product.ID) {
			logger.Info("cart item removed")
		}
	default:
		middleware.WriteError(w, r, http.StatusBadRequest, "unknown cart action")
		return
	}

	snap := st.Snapshot()
	control := h.templates.Component(render.TemplateCardControl, render.ControlFor(product.ID, snap))
	templ.Handler(h.withCartOOB(control, snap)).ServeHTTP(w, r)
}

// DetailCart adds one unit from the detail view, syncs the originating card and closes the detail.
func (h *Handlers) DetailCart(w http.ResponseWriter, r *http.Request) {
	product, ok := h.product(w, r)
	if !ok {
		return
	}

	st := h.storeFor(r)
	if st.AddToCart(lineItem(product, 1)) {
		observability.FromContext(r.Context()).Info("cart item added", zap.String("product", product.ID), zap.Int("quantity", 1))
	}

	snap := st.Snapshot()
	control := render.ControlFor(product.ID, snap)
	control.OOB = true

	w.Header().Set(triggerHeader, detailCloseEvent)
	templ.Handler(h.withCartOOB(h.templates.Component(render.TemplateCardControl, control), snap)).ServeHTTP(w, r)
}

// Wishlist adds a product to the wishlist once and refreshes the heart and the wishlist panel.
func (h *Handlers) Wishlist(w http.ResponseWriter, r *http.Request) {
	product, ok := h.product(w, r)
	if !ok {
		return
	}

	st := h.storeFor(r)
	if st.AddToWishlist(store.WishlistItem{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.Image,
	}) {
		observability.FromContext(r.Context()).Info("wishlist item added", zap.String("product", product.ID))
	}

	snap := st.Snapshot()
	panel := render.WishlistPanel(snap)
	panel.OOB = true
	templ.Handler(render.Join(
		h.templates.Component(render.TemplateWishlistHeart, render.CardFor(product, snap)),
		h.templates.Component(render.TemplateWishlistPanel, panel),
	)).ServeHTTP(w, r)
}

// Detail renders the detail view of one product and asks the client to open it.
func (h *Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	product, ok := h.product(w, r)
	if !ok {
		return
	}
	w.Header().Set(triggerHeader, detailOpenEvent)
	view := render.Detail(product, h.storeFor(r).Snapshot())
	templ.Handler(h.templates.Component(render.TemplateDetail, view)).ServeHTTP(w, r)
}

// Zoom re-renders the zoom container focused at the pointer position.
func (h *Handlers) Zoom(w http.ResponseWriter, r *http.Request) {
	product, ok := h.product(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	zoom := render.NewZoom(product.ID, product.Image).
		FocusAt(parseFloat(q.Get("x")), parseFloat(q.Get("y")), parseFloat(q.Get("w")), parseFloat(q.Get("h"))).
		WithActive(parseBool(q.Get("active")))
	templ.Handler(h.templates.Component(render.TemplateZoom, zoom)).ServeHTTP(w, r)
}

// CartPanel renders the cart panel contents.
func (h *Handlers) CartPanel(w http.ResponseWriter, r *http.Request) {
	view := render.CartPanel(h.storeFor(r).Snapshot())
	templ.Handler(h.templates.Component(render.TemplateCartPanel, view)).ServeHTTP(w, r)
}

// WishlistPanel renders the wishlist panel contents.
func (h *Handlers) WishlistPanel(w http.ResponseWriter, r *http.Request) {
	view := render.WishlistPanel(h.storeFor(r).Snapshot())
	templ.Handler(h.templates.Component(render.TemplateWishlistPanel, view)).ServeHTTP(w, r)
}

// grid builds the grid for a search value and category selection. It reports
// false when a non-empty search value resolves to no products.
func (h *Handlers) grid(search string, sel filter.Selection, snap store.Snapshot) (render.GridView, bool) {
	products := h.index.Products()
	if search = strings.TrimSpace(search); search != "" {
		resolved := h.index.Resolve(search)
		if resolved.Kind == catalog.SelectionNone {
			return render.GridView{}, false
		}
		products = resolved.Products
	}
	grid := render.Grid(products, snap)
	filter.Apply(&grid, sel)
	return grid, true
}

// withCartOOB follows main with out-of-band swaps for the cart badge and panel.
func (h *Handlers) withCartOOB(main templ.Component, snap store.Snapshot) templ.Component {
	badge := render.Badge(snap.Count)
	badge.OOB = true
	panel := render.CartPanel(snap)
	panel.OOB = true
	return render.Join(
		main,
		h.templates.Component(render.TemplateBadge, badge),
		h.templates.Component(render.TemplateCartPanel, panel),
	)
}

func (h *Handlers) product(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	product, ok := h.index.Lookup(chi.URLParam(r, "id"))
	if !ok {
		middleware.WriteError(w, r, http.StatusNotFound, "product not found")
		return catalog.Product{}, false
	}
	return product, true
}

func (h *Handlers) origin(path string) string {
	if h.baseURL == "" {
		return ""
	}
	return h.baseURL + path
}

func (h *Handlers) storeFor(r *http.Request) *store.Store {
	return h.stores.Get(middleware.SessionID(r.Context()))
}

func lineItem(p catalog.Product, qty int) store.LineItem {
	return store.LineItem{
		ProductID: p.ID,
		Title:     p.Title,
		UnitPrice: p.Price,
		Quantity:  qty,
		Image:     p.Image,
	}
}

// parseQuantity accepts only the offered quantity choices and falls back to 1.
func parseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	for _, choice := range render.QuantityChoices {
		if n == choice {
			return n
		}
	}
	return 1
}

func parseFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && b
}
