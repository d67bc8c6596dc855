package shopify

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storesync/internal/models"
)

// ErrMalformedNode marks a product or variant node that cannot be used.
var ErrMalformedNode = errors.New("malformed node")

type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// TransformProduct converts an Admin product node into the local model.
// Variant nodes that are missing or unusable are dropped; the count of
// dropped variants is returned alongside the product.
func (t *Transformer) TransformProduct(node json.RawMessage, currencyCode string) (*models.Product, int, error) {
	if isNullNode(node) {
		return nil, 0, fmt.Errorf("%w: empty product node", ErrMalformedNode)
	}

	var remote Product
	if err := json.Unmarshal(node, &remote); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedNode, err)
	}
	if remote.ID == "" {
		return nil, 0, fmt.Errorf("%w: product missing id", ErrMalformedNode)
	}

	variants, dropped := t.TransformVariants(remote.Variants, currencyCode)

	product := &models.Product{
		ExternalID:      remote.ID,
		Handle:          remote.Handle,
		Title:           remote.Title,
		Description:     remote.Description,
		DescriptionHTML: remote.DescriptionHTML,
		Vendor:          remote.Vendor,
		ProductType:     remote.ProductType,
		Status:          remote.Status,
		RemoteUpdatedAt: remote.UpdatedAt,
		Options:         transformOptions(remote.Options),
		Variants:        variants,
	}
	if remote.FeaturedImage != nil {
		product.FeaturedImageURL = remote.FeaturedImage.URL
	}

	return product, dropped, nil
}

// TransformVariants flattens variant edges in order, skipping bad nodes.
func (t *Transformer) TransformVariants(conn Connection, currencyCode string) ([]models.Variant, int) {
	variants := make([]models.Variant, 0, len(conn.Edges))
	dropped := 0

	for _, edge := range conn.Edges {
		variant, err := transformVariant(EdgeNode(edge), currencyCode)
		if err != nil {
			dropped++
			continue
		}
		variants = append(variants, *variant)
	}

	return variants, dropped
}

func transformVariant(node json.RawMessage, currencyCode string) (*models.Variant, error) {
	if isNullNode(node) {
		return nil, ErrMalformedNode
	}

	var remote Variant
	if err := json.Unmarshal(node, &remote); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNode, err)
	}
	if remote.ID == "" {
		return nil, fmt.Errorf("%w: variant missing id", ErrMalformedNode)
	}
	variant := &models.Variant{
		ID:               remote.ID,
		Title:            remote.Title,
		AvailableForSale: remote.AvailableForSale,
		Price:            models.Money{Amount: priceAmount(remote.Price), CurrencyCode: currencyCode},
		SelectedOptions:  make([]models.SelectedOption, 0, len(remote.SelectedOptions)),
	}
	if remote.SKU != nil {
		variant.SKU = *remote.SKU
	}
	if remote.CompareAtPrice != nil {
		if amount := priceAmount(*remote.CompareAtPrice); amount != "" {
			variant.CompareAtPrice = &models.Money{Amount: amount, CurrencyCode: currencyCode}
		}
	}
	for _, so := range remote.SelectedOptions {
		variant.SelectedOptions = append(variant.SelectedOptions, models.SelectedOption{Name: so.Name, Value: so.Value})
	}
	if remote.Image != nil && remote.Image.URL != "" {
		variant.Image = &models.Image{URL: remote.Image.URL}
		if remote.Image.AltText != nil {
			variant.Image.AltText = *remote.Image.AltText
		}
	}

	return variant, nil
}

// priceAmount returns the amount as sent, or "" when it is not a decimal.
func priceAmount(amount string) string {
	if _, err := decimal.NewFromString(amount); err != nil {
		return ""
	}
	return amount
}

func transformOptions(options []Option) []models.ProductOption {
	out := make([]models.ProductOption, 0, len(options))
	for _, o := range options {
		values := o.Values
		if values == nil {
			values = []string{}
		}
		out = append(out, models.ProductOption{Name: o.Name, Values: values})
	}
	return out
}

func isNullNode(node json.RawMessage) bool {
	return len(node) == 0 || string(node) == "null"
}
