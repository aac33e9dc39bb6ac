// Package render turns catalog products and a store snapshot into view models
// and HTML. It holds no state of its own.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/LingaMahesh11/Style-Spot/internal/catalog"
	"github.com/LingaMahesh11/Style-Spot/internal/format"
	"github.com/LingaMahesh11/Style-Spot/internal/store"
)

// Cart control actions posted by a card or detail view.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Empty-state messages for the panels.
const (
	CartEmptyMessage     = "Your cart is empty."
	WishlistEmptyMessage = "Your wishlist is empty."
)

// QuantityChoices is the bounded set offered by each card's quantity selector.
var QuantityChoices = []int{1, 2, 3}

// Control is the add/remove cart affordance of one product, derived from the store.
type Control struct {
	ProductID string
	InCart    bool
	Quantity  int
	OOB       bool
}

// Label is the button text.
func (c Control) Label() string {
	if c.InCart {
		return "Remove"
	}
	return "Add to Cart"
}

// Action is the operation the button posts.
func (c Control) Action() string {
	if c.InCart {
		return ActionRemove
	}
	return ActionAdd
}

// QuantityOption is one entry of a card's quantity selector.
type QuantityOption struct {
	Value    int
	Selected bool
}

// Options lists the selectable quantities with the current one marked.
func (c Control) Options() []QuantityOption {
	out := make([]QuantityOption, 0, len(QuantityChoices))
	for _, q := range QuantityChoices {
		out = append(out, QuantityOption{Value: q, Selected: q == c.Quantity})
	}
	return out
}

// ControlFor derives a product's control from the snapshot. A carted product
// shows its line quantity; otherwise the selector defaults to 1.
func ControlFor(productID string, snap store.Snapshot) Control {
	c := Control{ProductID: productID, Quantity: 1}
	if li, ok := snap.Line(productID); ok {
		c.InCart = true
		c.Quantity = li.Quantity
	}
	return c
}

// Card is the grid representation of one product.
type Card struct {
	ID            string
	Title         string
	Description   template.HTML
	Brand         string
	Category      string
	Image         string
	Price         string
	OriginalPrice string
	Tooltip       string
	Control       Control
	Wishlisted    bool
	Hidden        bool
}

// GridView is the full product grid. A *GridView satisfies filter.Target.
type GridView struct {
	Cards []Card
}

// Len reports the number of cards.
func (g GridView) Len() int { return len(g.Cards) }

// CategoryAt returns the category of card i.
func (g GridView) CategoryAt(i int) string { return g.Cards[i].Category }

// SetVisible shows or hides card i.
func (g *GridView) SetVisible(i int, visible bool) { g.Cards[i].Hidden = !visible }

// Visible counts the cards that are not hidden.
func (g GridView) Visible() int {
	n := 0
	for _, c := range g.Cards {
		if !c.Hidden {
			n++
		}
	}
	return n
}

// Grid renders one card per product, all visible.
func Grid(products []catalog.Product, snap store.Snapshot) GridView {
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		cards = append(cards, CardFor(p, snap))
	}
	return GridView{Cards: cards}
}

// CardFor renders a single product card.
func CardFor(p catalog.Product, snap store.Snapshot) Card {
	return Card{
		ID:            p.ID,
		Title:         p.Title,
		Description:   Description(p.Description),
		Brand:         p.Brand,
		Category:      p.Category,
		Image:         p.Image,
		Price:         format.Currency(p.Price, ""),
		OriginalPrice: format.Currency(p.OriginalPrice, ""),
		Tooltip:       Tooltip(p),
		Control:       ControlFor(p.ID, snap),
		Wishlisted:    snap.InWishlist(p.ID),
	}
}

// Tooltip is the info affordance text of a card, one attribute per line.
func Tooltip(p catalog.Product) string {
	return strings.Join([]string{
		"Brand: " + p.Brand,
		"Rating: " + format.Rating(p.Rating),
		"Price: " + format.Currency(p.Price, ""),
		"Cloth: " + p.Cloth,
	}, "\n")
}

// CategoryOption is one checkbox of the filter sidebar.
type CategoryOption struct {
	Label   string
	Checked bool
}

// Categories builds the sidebar checkboxes.
func Categories(categories []string, checked func(string) bool) []CategoryOption {
	out := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryOption{Label: c, Checked: checked != nil && checked(c)})
	}
	return out
}

// BadgeView is the cart count indicator. OOB fields on views mark a fragment
// as an out-of-band swap in a response whose main target is elsewhere.
type BadgeView struct {
	Count  int
	Hidden bool
	OOB    bool
}

// Badge hides the indicator when the cart is empty.
func Badge(count int) BadgeView {
	return BadgeView{Count: count, Hidden: count <= 0}
}

// CartLine is one row of the cart panel.
type CartLine struct {
	ProductID string
	Title     string
	Image     string
	Quantity  int
	Subtotal  string
}

// Label is the row text, e.g. "Shirt A (x2)".
func (l CartLine) Label() string {
	return fmt.Sprintf("%s (x%d)", l.Title, l.Quantity)
}

// CartPanelView is the cart panel content.
type CartPanelView struct {
	Lines        []CartLine
	Total        string
	Empty        bool
	EmptyMessage string
	OOB          bool
}

// CartPanel lists the cart lines with a grand total, or the empty-state message.
func CartPanel(snap store.Snapshot) CartPanelView {
	if len(snap.Lines) == 0 {
		return CartPanelView{Empty: true, EmptyMessage: CartEmptyMessage}
	}
	lines := make([]CartLine, 0, len(snap.Lines))
	for _, li := range snap.Lines {
		lines = append(lines, CartLine{
			ProductID: li.ProductID,
			Title:     li.Title,
			Image:     li.Image,
			Quantity:  li.Quantity,
			Subtotal:  format.Currency(li.Subtotal(), ""),
		})
	}
	return CartPanelView{Lines: lines, Total: format.Currency(snap.Total, "")}
}

// WishlistLine is one row of the wishlist panel.
type WishlistLine struct {
	ProductID string
	Title     string
	Image     string
	Price     string
}

// WishlistPanelView is the wishlist panel content.
type WishlistPanelView struct {
	Items        []WishlistLine
	Empty        bool
	EmptyMessage string
	OOB          bool
}

// WishlistPanel lists wishlist entries, or the empty-state message.
func WishlistPanel(snap store.Snapshot) WishlistPanelView {
	if len(snap.Wishlist) == 0 {
		return WishlistPanelView{Empty: true, EmptyMessage: WishlistEmptyMessage}
	}
	items := make([]WishlistLine, 0, len(snap.Wishlist))
	for _, it := range snap.Wishlist {
		items = append(items, WishlistLine{
			ProductID: it.ProductID,
			Title:     it.Title,
			Image:     it.Image,
			Price:     format.Currency(it.Price, ""),
		})
	}
	return WishlistPanelView{Items: items}
}

// DetailView is the focused single-product view.
type DetailView struct {
	ID          string
	Title       string
	Brand       string
	Description template.HTML
	Image       string
	Rating      string
	Price       string
	Zoom        Zoom
	Control     Control
	Wishlisted  bool
}

// Detail renders the detail view of a product with the zoom at rest.
func Detail(p catalog.Product, snap store.Snapshot) DetailView {
	return DetailView{
		ID:          p.ID,
		Title:       p.Title,
		Brand:       p.Brand,
		Description: Description(p.Description),
		Image:       p.Image,
		Rating:      format.Rating(p.Rating),
		Price:       format.Currency(p.Price, ""),
		Zoom:        NewZoom(p.ID, p.Image),
		Control:     ControlFor(p.ID, snap),
		Wishlisted:  snap.InWishlist(p.ID),
	}
}
