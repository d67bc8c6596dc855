package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the local mirror of a remote catalog product. ExternalID is the
// reconciliation key; every sync overwrites the remaining fields wholesale.
type Product struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	ExternalID       string          `json:"external_id" gorm:"uniqueIndex;not null"`
	Handle           string          `json:"handle" gorm:"index;not null"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	DescriptionHTML  string          `json:"description_html"`
	Vendor           string          `json:"vendor"`
	ProductType      string          `json:"product_type"`
	Status           string          `json:"status"`
	RemoteUpdatedAt  string          `json:"remote_updated_at"`
	FeaturedImageURL string          `json:"featured_image_url"`
	Options          []ProductOption `json:"options" gorm:"serializer:json;type:text"`
	Variants         []Variant       `json:"variants" gorm:"serializer:json;type:text"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is embedded in its Product and has no lifecycle of its own.
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	SKU              string           `json:"sku"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            Money            `json:"price"`
	CompareAtPrice   *Money           `json:"compareAtPrice"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	Image            *Image           `json:"image"`
}

// Money keeps the remote decimal string untouched.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
