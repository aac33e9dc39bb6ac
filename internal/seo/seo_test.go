package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/LingaMahesh11/Style-Spot/internal/catalog"
)

func sample() []catalog.Product {
	return []catalog.Product{
		{ID: "a", Title: "Shirt A", Brand: "Roadster", Category: "Shirts", Price: decimal.NewFromInt(500), Rating: 4.2, Image: "a.jpg"},
		{ID: "b", Title: "Pants B", Category: "Pants", Price: decimal.RequireFromString("799.5")},
	}
}

func TestStorefrontMeta(t *testing.T) {
	m := Storefront("Style Spot", "https://shop.example/", sample())
	require.Equal(t, "Shop the collection: Shirts, Pants.", m.Description)
	require.Equal(t, "https://shop.example/", m.Canonical)
	require.Equal(t, "a.jpg", m.OG.Image)

	empty := Storefront("Style Spot", "", nil)
	require.Equal(t, "Shop the collection.", empty.Description)
	require.Empty(t, empty.Canonical)
	require.Empty(t, empty.OG.Image)

	long := Storefront("x", "", []catalog.Product{{Category: strings.Repeat("c", 200)}})
	require.Len(t, []rune(long.Description), maxDescriptionRunes)
}

func TestItemList(t *testing.T) {
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(JSON(ItemList(sample()))), &decoded))
	require.Equal(t, "ItemList", decoded["@type"])
	require.EqualValues(t, 2, decoded["numberOfItems"])

	items := decoded["itemListElement"].([]any)
	first := items[0].(map[string]any)["item"].(map[string]any)
	require.Equal(t, "Shirt A", first["name"])
	require.Equal(t, "500.00", first["offers"].(map[string]any)["price"])
	require.Equal(t, "INR", first["offers"].(map[string]any)["priceCurrency"])
	require.Contains(t, first, "aggregateRating")

	second := items[1].(map[string]any)["item"].(map[string]any)
	require.Equal(t, "799.50", second["offers"].(map[string]any)["price"])
	require.NotContains(t, second, "brand")
	require.NotContains(t, second, "aggregateRating")
}

func TestJSONEscapesMarkup(t *testing.T) {
	out := string(JSON(map[string]string{"name": "</script><b>"}))
	require.NotContains(t, out, "</script>")
	require.Contains(t, out, `\u003c/script\u003e`)
}
