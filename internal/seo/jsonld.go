package seo

import (
	"encoding/json"
	"html/template"

	"github.com/LingaMahesh11/Style-Spot/internal/catalog"
)

const currency = "INR"

// JSON marshals v for an application/ld+json script. It returns an empty value on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// WebSite returns a WebSite schema with a SearchAction when searchURL is set.
func WebSite(name, url, searchURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if searchURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchURL + "{search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// Product returns the schema.org Product of a catalog entry with its offer and rating.
func Product(p catalog.Product) map[string]any {
	m := map[string]any{
		"@type":       "Product",
		"name":        p.Title,
		"description": p.Description,
		"sku":         p.ID,
		"category":    p.Category,
		"offers": map[string]any{
			"@type":         "Offer",
			"price":         p.Price.StringFixed(2),
			"priceCurrency": currency,
		},
	}
	if p.Image != "" {
		m["image"] = p.Image
	}
	if p.Brand != "" {
		m["brand"] = map[string]any{"@type": "Brand", "name": p.Brand}
	}
	if p.Rating > 0 {
		m["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": p.Rating,
			"bestRating":  5,
		}
	}
	return m
}

// ItemList lists products in catalog order.
func ItemList(products []catalog.Product) map[string]any {
	el := make([]map[string]any, 0, len(products))
	for i, p := range products {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     Product(p),
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"numberOfItems":   len(products),
		"itemListElement": el,
	}
}
