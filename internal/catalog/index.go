package catalog

import "strings"

// minSuggestRunes is the shortest search term that produces suggestions.
const minSuggestRunes = 2

// SelectionKind distinguishes how a search suggestion resolved.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionCategory
	SelectionTitle
)

// Selection is the product subset a chosen suggestion resolves to.
type Selection struct {
	Kind     SelectionKind
	Value    string
	Products []Product
}

// Categories returns the distinct categories in first-seen order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Titles returns every product title in catalog order.
func Titles(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}

// Suggestions returns the search source: titles first, then categories.
func Suggestions(products []Product) []string {
	titles := Titles(products)
	cats := Categories(products)
	out := make([]string, 0, len(titles)+len(cats))
	out = append(out, titles...)
	return append(out, cats...)
}

// ResolveSelection maps a chosen suggestion to products. A category match wins over a title match.
func ResolveSelection(products []Product, value string) Selection {
	var inCategory []Product
	for _, p := range products {
		if p.Category == value {
			inCategory = append(inCategory, p)
		}
	}
	if len(inCategory) > 0 {
		return Selection{Kind: SelectionCategory, Value: value, Products: inCategory}
	}
	for _, p := range products {
		if p.Title == value {
			return Selection{Kind: SelectionTitle, Value: value, Products: []Product{p}}
		}
	}
	return Selection{Kind: SelectionNone, Value: value}
}

// Index is a read-only view over a loaded catalog. It is safe for concurrent use.
type Index struct {
	products    []Product
	byID        map[string]int
	categories  []string
	titles      []string
	suggestions []string
}

// NewIndex builds the derived views once. A nil or empty slice yields an empty index.
func NewIndex(products []Product) *Index {
	own := append([]Product(nil), products...)
	byID := make(map[string]int, len(own))
	for i, p := range own {
		byID[p.ID] = i
	}
	return &Index{
		products:    own,
		byID:        byID,
		categories:  Categories(own),
		titles:      Titles(own),
		suggestions: Suggestions(own),
	}
}

// Products returns the full catalog in load order.
func (ix *Index) Products() []Product { return append([]Product(nil), ix.products...) }

// Len reports the number of products.
func (ix *Index) Len() int { return len(ix.products) }

// Categories returns the distinct categories.
func (ix *Index) Categories() []string { return append([]string(nil), ix.categories...) }

// Titles returns all product titles.
func (ix *Index) Titles() []string { return append([]string(nil), ix.titles...) }

// Suggestions returns titles followed by categories.
func (ix *Index) Suggestions() []string { return append([]string(nil), ix.suggestions...) }

// Lookup finds a product by identifier.
func (ix *Index) Lookup(id string) (Product, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return Product{}, false
	}
	return ix.products[i], true
}

// Resolve applies ResolveSelection to the indexed catalog.
func (ix *Index) Resolve(value string) Selection {
	return ResolveSelection(ix.products, value)
}

// Suggest filters the suggestion source by a typed term, case-insensitively.
// Terms shorter than two characters produce nothing; limit <= 0 means no limit.
func (ix *Index) Suggest(term string, limit int) []string {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < minSuggestRunes {
		return nil
	}
	needle := strings.ToLower(term)
	var out []string
	for _, s := range ix.suggestions {
		if !strings.Contains(strings.ToLower(s), needle) {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
