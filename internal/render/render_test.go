package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LingaMahesh11/Style-Spot/internal/catalog"
	"github.com/LingaMahesh11/Style-Spot/internal/filter"
	"github.com/LingaMahesh11/Style-Spot/internal/render"
	"github.com/LingaMahesh11/Style-Spot/internal/store"
	"github.com/LingaMahesh11/Style-Spot/internal/testutil"
)

func products() []catalog.Product {
	return []catalog.Product{
		{
			ID: catalog.ProductID("Shirt A"), Title: "Shirt A", Description: "Crisp *cotton* shirt.",
			Brand: "Roadster", Category: "Shirts", Price: decimal.NewFromInt(500), OriginalPrice: decimal.NewFromInt(700),
			Rating: 4.2, Cloth: "Cotton", Image: "images/shirt-a.jpg",
		},
		{
			ID: catalog.ProductID("Pants B"), Title: "Pants B", Description: "Slim fit chinos.",
			Brand: "Highlander", Category: "Pants", Price: decimal.NewFromInt(800), OriginalPrice: decimal.NewFromInt(1200),
			Rating: 4, Cloth: "Cotton blend", Image: "images/pants-b.jpg",
		},
	}
}

func execute(t *testing.T, name string, data any) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render.MustParseTemplates().Execute(&buf, name, data))
	return buf.Bytes()
}

func TestGridCardsCarryProductData(t *testing.T) {
	grid := render.Grid(products(), store.Snapshot{})
	require.Equal(t, 2, grid.Len())

	card := grid.Cards[0]
	assert.Equal(t, "₹500", card.Price)
	assert.Equal(t, "₹700", card.OriginalPrice)
	assert.Equal(t, "Brand: Roadster\nRating: 4.2 ⭐\nPrice: ₹500\nCloth: Cotton", card.Tooltip)
	assert.Contains(t, string(card.Description), "<em>cotton</em>")
	assert.Equal(t, "Add to Cart", card.Control.Label())
	assert.Equal(t, render.ActionAdd, card.Control.Action())
	assert.Equal(t, 1, card.Control.Quantity)

	doc := testutil.ParseHTML(t, execute(t, render.TemplateGrid, grid))
	require.Equal(t, []string{"Shirt A", "Pants B"}, testutil.Texts(doc, ".card-title"))
	require.Equal(t, 2, doc.Find(".card-control").Length())
	selected, _ := doc.Find("#card-" + card.ID + " select option[selected]").Attr("value")
	require.Equal(t, "1", selected)
	require.Equal(t, 3, doc.Find("#card-"+card.ID+" select option").Length())
}

func TestControlDerivedFromStore(t *testing.T) {
	s := store.New()
	p := products()[0]
	s.AddToCart(store.LineItem{ProductID: p.ID, Title: p.Title, UnitPrice: p.Price, Quantity: 2})

	grid := render.Grid(products(), s.Snapshot())
	ctl := grid.Cards[0].Control
	require.True(t, ctl.InCart)
	require.Equal(t, "Remove", ctl.Label())
	require.Equal(t, render.ActionRemove, ctl.Action())
	require.Equal(t, 2, ctl.Quantity)
	require.False(t, grid.Cards[1].Control.InCart)

	doc := testutil.ParseHTML(t, execute(t, render.TemplateCardControl, ctl))
	require.Equal(t, "Remove", strings.TrimSpace(doc.Find("button.add-to-cart").Text()))
	require.True(t, doc.Find("button.add-to-cart").HasClass("btn-danger"))
	action, _ := doc.Find("input[name=action]").Attr("value")
	require.Equal(t, "remove", action)
}

func TestGridFilterHidesCards(t *testing.T) {
	grid := render.Grid(products(), store.Snapshot{})
	require.Equal(t, 1, filter.Apply(&grid, filter.NewSelection("Shirts")))
	require.Equal(t, 1, grid.Visible())

	doc := testutil.ParseHTML(t, execute(t, render.TemplateGrid, grid))
	require.Equal(t, []string{"Shirt A"}, testutil.VisibleCards(doc))
	require.Equal(t, 2, doc.Find(".product-col").Length(), "filtering hides cards without dropping them")
}

func TestBadge(t *testing.T) {
	require.True(t, render.Badge(0).Hidden)
	require.False(t, render.Badge(3).Hidden)

	doc := testutil.ParseHTML(t, execute(t, render.TemplateBadge, render.Badge(0)))
	_, hidden := doc.Find("#cartItemCount").Attr("hidden")
	require.True(t, hidden)
	require.Empty(t, strings.TrimSpace(doc.Find("#cartItemCount").Text()))

	badge := render.Badge(2)
	badge.OOB = true
	doc = testutil.ParseHTML(t, execute(t, render.TemplateBadge, badge))
	require.Equal(t, "2", strings.TrimSpace(doc.Find("#cartItemCount").Text()))
	oob, _ := doc.Find("#cartItemCount").Attr("hx-swap-oob")
	require.Equal(t, "true", oob)
}

func TestCartPanel(t *testing.T) {
	empty := render.CartPanel(store.Snapshot{})
	require.True(t, empty.Empty)
	doc := testutil.ParseHTML(t, execute(t, render.TemplateCartPanel, empty))
	require.Equal(t, "Your cart is empty.", strings.TrimSpace(doc.Find("#cartItemsContainer .empty-state").Text()))
	require.Zero(t, doc.Find(".cart-total").Length())

	s := store.New()
	s.AddToCart(store.LineItem{ProductID: "a", Title: "Shirt A", UnitPrice: decimal.NewFromInt(500), Quantity: 2})
	s.AddToCart(store.LineItem{ProductID: "b", Title: "Pants B", UnitPrice: decimal.NewFromInt(800), Quantity: 1})
	panel := render.CartPanel(s.Snapshot())
	require.Equal(t, "₹1,800", panel.Total)

	doc = testutil.ParseHTML(t, execute(t, render.TemplateCartPanel, panel))
	require.Equal(t, []string{"Shirt A (x2)", "Pants B (x1)"}, testutil.Texts(doc, ".cart-item-label"))
	require.Equal(t, []string{"₹1,000", "₹800"}, testutil.Texts(doc, ".cart-item-subtotal"))
	require.Equal(t, "₹1,800", strings.TrimSpace(doc.Find(".cart-total-amount").Text()))
}

func TestWishlistPanel(t *testing.T) {
	doc := testutil.ParseHTML(t, execute(t, render.TemplateWishlistPanel, render.WishlistPanel(store.Snapshot{})))
	require.Equal(t, "Your wishlist is empty.", strings.TrimSpace(doc.Find(".empty-state").Text()))

	snap := store.Snapshot{Wishlist: []store.WishlistItem{{ProductID: "b", Title: "Pants B", Price: decimal.NewFromInt(800)}}}
	doc = testutil.ParseHTML(t, execute(t, render.TemplateWishlistPanel, render.WishlistPanel(snap)))
	require.Equal(t, []string{"Pants B"}, testutil.Texts(doc, ".wishlist-item-title"))
	require.Equal(t, []string{"₹800"}, testutil.Texts(doc, ".wishlist-item-price"))
}

func TestDetail(t *testing.T) {
	p := products()[0]
	view := render.Detail(p, store.Snapshot{})
	require.False(t, view.Zoom.Active)

	doc := testutil.ParseHTML(t, execute(t, render.TemplateDetail, view))
	require.Equal(t, "Roadster", strings.TrimSpace(doc.Find(".detail-brand").Text()))
	require.Equal(t, "Shirt A", strings.TrimSpace(doc.Find(".detail-title").Text()))
	require.Equal(t, "Rating: 4.2 ⭐", strings.TrimSpace(doc.Find(".detail-rating").Text()))
	require.Equal(t, "Price: ₹500", strings.TrimSpace(doc.Find(".detail-price").Text()))
	style, _ := doc.Find("#imageZoom").Attr("style")
	require.Contains(t, style, "--zoom-x: 0%")
	require.Contains(t, style, "--display: none")
	post, _ := doc.Find(".add-to-cart-modal").Attr("hx-post")
	require.Equal(t, "/products/"+p.ID+"/cart", post)
}

func TestSuggestions(t *testing.T) {
	doc := testutil.ParseHTML(t, execute(t, render.TemplateSuggestions, render.SuggestionsView{Values: []string{"Shirt A", "Shirts"}}))
	var values []string
	doc.Find("option").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("value")
		values = append(values, v)
	})
	require.Equal(t, []string{"Shirt A", "Shirts"}, values)
}

func TestDescriptionIsSanitised(t *testing.T) {
	html := string(render.Description("Nice <script>alert(1)</script> **fit**"))
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<strong>fit</strong>")
	assert.Empty(t, render.Description("   "))
}

func TestPageRenders(t *testing.T) {
	page := render.PageView{
		Title:      "Style Spot",
		Grid:       render.Grid(products(), store.Snapshot{}),
		Categories: render.Categories([]string{"Shirts", "Pants"}, func(c string) bool { return c == "Pants" }),
		Badge:      render.Badge(0),
		Cart:       render.CartPanel(store.Snapshot{}),
		Wishlist:   render.WishlistPanel(store.Snapshot{}),
		CSRFToken:  "token-123",
	}
	doc := testutil.ParseHTML(t, execute(t, render.TemplatePage, page))
	require.Equal(t, 2, doc.Find("#productGrid .card").Length())
	require.Equal(t, 2, doc.Find("input.filter-checkbox").Length())
	_, checked := doc.Find("input.filter-checkbox[value=Pants]").Attr("checked")
	require.True(t, checked)
	token, _ := doc.Find("meta[name=csrf-token]").Attr("content")
	require.Equal(t, "token-123", token)
	require.Equal(t, 1, doc.Find("#cartItemsContainer").Length())
	require.Equal(t, 1, doc.Find("#wishlistItemsContainer").Length())
}
