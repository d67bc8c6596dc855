package shopify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teeNode = `{
  "id": "gid://shopify/Product/1",
  "handle": "tee",
  "title": "Tee",
  "description": "Soft tee",
  "descriptionHtml": "<p>Soft tee</p>",
  "vendor": "Acme",
  "productType": "Shirts",
  "status": "ACTIVE",
  "updatedAt": "2026-01-01T00:00:00Z",
  "featuredImage": {"url": "https://cdn.example/tee.png", "altText": null},
  "options": [{"name": "Size", "values": ["S", "M"]}],
  "variants": {"edges": [
    {"node": {
      "id": "v1", "title": "S", "sku": "TEE-S", "availableForSale": true,
      "price": "19.99", "compareAtPrice": "24.99",
      "selectedOptions": [{"name": "Size", "value": "S"}],
      "image": {"url": "https://cdn.example/tee-s.png", "altText": "Small"}
    }},
    {"node": null},
    {},
    {"node": {"id": "v3", "title": "M", "sku": null, "availableForSale": false, "price": "not-a-price"}},
    {"node": {"id": "v4", "title": "M", "sku": null, "availableForSale": false, "price": "21.00", "compareAtPrice": null}}
  ]}
}`

func TestTransformProduct(t *testing.T) {
	product, dropped, err := NewTransformer().TransformProduct(json.RawMessage(teeNode), "USD")
	require.NoError(t, err)

	assert.Equal(t, 2, dropped)
	assert.Equal(t, "gid://shopify/Product/1", product.ExternalID)
	assert.Equal(t, "tee", product.Handle)
	assert.Equal(t, "<p>Soft tee</p>", product.DescriptionHTML)
	assert.Equal(t, "2026-01-01T00:00:00Z", product.RemoteUpdatedAt)
	assert.Equal(t, "https://cdn.example/tee.png", product.FeaturedImageURL)
	require.Len(t, product.Options, 1)
	assert.Equal(t, []string{"S", "M"}, product.Options[0].Values)

	require.Len(t, product.Variants, 3)
	first := product.Variants[0]
	assert.Equal(t, "v1", first.ID)
	assert.Equal(t, "TEE-S", first.SKU)
	assert.True(t, first.AvailableForSale)
	assert.Equal(t, "19.99", first.Price.Amount)
	assert.Equal(t, "USD", first.Price.CurrencyCode)
	require.NotNil(t, first.CompareAtPrice)
	assert.Equal(t, "24.99", first.CompareAtPrice.Amount)
	require.NotNil(t, first.Image)
	assert.Equal(t, "Small", first.Image.AltText)

	unpriced := product.Variants[1]
	assert.Equal(t, "v3", unpriced.ID)
	assert.Equal(t, "", unpriced.Price.Amount)
	assert.Equal(t, "USD", unpriced.Price.CurrencyCode)

	third := product.Variants[2]
	assert.Equal(t, "v4", third.ID)
	assert.Equal(t, "21.00", third.Price.Amount)
	assert.Nil(t, third.CompareAtPrice)
	assert.Nil(t, third.Image)
}

func TestTransformProductDropsOnlyBadVariantEdges(t *testing.T) {
	node := `{"id":"p1","handle":"tee","variants":{"edges":[
		"junk",
		42,
		{"node":"v-string"},
		{"node":{"title":"no id","price":"1.00"}},
		{"node":{"id":"v2","price":"1.00","compareAtPrice":"n/a"}}
	]}}`

	product, dropped, err := NewTransformer().TransformProduct(json.RawMessage(node), "EUR")
	require.NoError(t, err)

	assert.Equal(t, 4, dropped)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "v2", product.Variants[0].ID)
	assert.Equal(t, "1.00", product.Variants[0].Price.Amount)
	assert.Nil(t, product.Variants[0].CompareAtPrice)
}

func TestEdgeNode(t *testing.T) {
	assert.JSONEq(t, `{"id":"v1"}`, string(EdgeNode(json.RawMessage(`{"node":{"id":"v1"}}`))))
	assert.Nil(t, EdgeNode(json.RawMessage(`"junk"`)))
	assert.Nil(t, EdgeNode(json.RawMessage(`{}`)))
	assert.Nil(t, EdgeNode(json.RawMessage(`null`)))
}

func TestTransformProductMalformed(t *testing.T) {
	tests := map[string]string{
		"null":       `null`,
		"empty":      ``,
		"not object": `"gid://shopify/Product/1"`,
		"missing id": `{"handle":"tee"}`,
	}

	for name, node := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := NewTransformer().TransformProduct(json.RawMessage(node), "USD")
			assert.ErrorIs(t, err, ErrMalformedNode)
		})
	}
}
