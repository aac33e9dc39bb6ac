package render

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/LingaMahesh11/Style-Spot/internal/seo"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names executed by the dispatcher.
const (
	TemplatePage          = "page"
	TemplateGrid          = "grid"
	TemplateCardControl   = "card_control"
	TemplateWishlistHeart = "wishlist_heart"
	TemplateBadge         = "badge"
	TemplateCartPanel     = "cart_panel"
	TemplateWishlistPanel = "wishlist_panel"
	TemplateDetail        = "detail"
	TemplateZoom          = "zoom"
	TemplateSuggestions   = "suggestions"
)

// PageView is the data of the full storefront page.
type PageView struct {
	Title          string
	Meta           seo.Meta
	StructuredData []template.JS
	Grid           GridView
	Categories     []CategoryOption
	Query          string
	Badge          BadgeView
	Cart           CartPanelView
	Wishlist       WishlistPanelView
	CSRFToken      string
}

// SuggestionsView is the option list offered to the search input.
type SuggestionsView struct {
	Values []string
}

// Templates is the parsed, embedded template set.
type Templates struct {
	set *template.Template
}

// ParseTemplates parses the embedded templates once.
func ParseTemplates() (*Templates, error) {
	funcMap := template.FuncMap{
		"oob": func(v bool) template.HTMLAttr {
			if v {
				return `hx-swap-oob="true"`
			}
			return ""
		},
	}
	set, err := template.New("_root").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &Templates{set: set}, nil
}

// MustParseTemplates is ParseTemplates for package initialisation and tests.
func MustParseTemplates() *Templates {
	t, err := ParseTemplates()
	if err != nil {
		panic(err)
	}
	return t
}

// Component wraps the named template as a templ component.
func (t *Templates) Component(name string, data any) templ.Component {
	tmpl := t.set.Lookup(name)
	if tmpl == nil {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return fmt.Errorf("render: template %q not defined", name)
		})
	}
	return templ.FromGoHTML(tmpl, data)
}

// Execute renders the named template straight to w.
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	return t.Component(name, data).Render(context.Background(), w)
}

// Join renders components one after another, stopping at the first error.
func Join(components ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range components {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
