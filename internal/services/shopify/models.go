package shopify

import (
	"encoding/json"
)

// ProductsPage is the "data" member of ProductsQuery. Product edges stay raw
// so that one malformed edge does not fail the page.
type ProductsPage struct {
	Shop struct {
		CurrencyCode string `json:"currencyCode"`
	} `json:"shop"`
	Products *struct {
		PageInfo PageInfo          `json:"pageInfo"`
		Edges    []json.RawMessage `json:"edges"`
	} `json:"products"`
}

type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Product is a product node from the Admin API.
type Product struct {
	ID              string     `json:"id"`
	Handle          string     `json:"handle"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DescriptionHTML string     `json:"descriptionHtml"`
	Vendor          string     `json:"vendor"`
	ProductType     string     `json:"productType"`
	Status          string     `json:"status"`
	UpdatedAt       string     `json:"updatedAt"`
	FeaturedImage   *Image     `json:"featuredImage"`
	Options         []Option   `json:"options"`
	Variants        Connection `json:"variants"`
}

// Connection is a GraphQL edges list with raw edges.
type Connection struct {
	Edges []json.RawMessage `json:"edges"`
}

// EdgeNode returns the node of a raw edge, or nil when the edge is not an
// object or has no node.
func EdgeNode(edge json.RawMessage) json.RawMessage {
	var e struct {
		Node json.RawMessage `json:"node"`
	}
	if err := json.Unmarshal(edge, &e); err != nil {
		return nil
	}
	return e.Node
}

type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	SKU              *string          `json:"sku"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            string           `json:"price"`
	CompareAtPrice   *string          `json:"compareAtPrice"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	Image            *Image           `json:"image"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Image struct {
	URL     string  `json:"url"`
	AltText *string `json:"altText"`
}

// MoneyV2 is the Storefront money shape.
type MoneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// UserError is a Storefront mutation rejection.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}
