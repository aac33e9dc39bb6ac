// Package seo builds the head metadata and schema.org structured data of the storefront page.
package seo

import (
	"strings"

	"github.com/LingaMahesh11/Style-Spot/internal/catalog"
)

const maxDescriptionRunes = 160

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
}

// Storefront describes the catalog page. The first product image, if any, previews the page.
func Storefront(title, baseURL string, products []catalog.Product) Meta {
	desc := "Shop the collection"
	if cats := catalog.Categories(products); len(cats) > 0 {
		desc += ": " + strings.Join(cats, ", ")
	}
	desc = truncate(desc+".", maxDescriptionRunes)

	m := Meta{
		Title:       title,
		Description: desc,
		Canonical:   canonical(baseURL, "/"),
		OG: OpenGraph{
			Title:       title,
			Description: desc,
			Type:        "website",
		},
	}
	if len(products) > 0 {
		m.OG.Image = products[0].Image
	}
	return m
}

func canonical(baseURL, path string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return ""
	}
	return base + path
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
