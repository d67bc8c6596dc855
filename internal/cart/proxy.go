package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"storesync/internal/logger"
	"storesync/internal/services/shopify"
)

// Cart is the flattened Storefront cart returned to the widget.
type Cart struct {
	ID            string   `json:"id"`
	CheckoutURL   string   `json:"checkoutUrl"`
	TotalQuantity int      `json:"totalQuantity"`
	Cost          CartCost `json:"cost"`
	Lines         []Line   `json:"lines"`
}

type CartCost struct {
	SubtotalAmount shopify.MoneyV2 `json:"subtotalAmount"`
	TotalAmount    shopify.MoneyV2 `json:"totalAmount"`
}

type Line struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Cost        LineCost    `json:"cost"`
	Merchandise Merchandise `json:"merchandise"`
}

type LineCost struct {
	TotalAmount shopify.MoneyV2 `json:"totalAmount"`
}

type Merchandise struct {
	ID              string                   `json:"id"`
	Title           string                   `json:"title"`
	SKU             *string                  `json:"sku"`
	Image           *shopify.Image           `json:"image"`
	SelectedOptions []shopify.SelectedOption `json:"selectedOptions"`
	Product         struct {
		Title  string `json:"title"`
		Handle string `json:"handle"`
	} `json:"product"`
	Price shopify.MoneyV2 `json:"price"`
}

// remoteCart is the Storefront shape with line edges.
type remoteCart struct {
	ID            string   `json:"id"`
	CheckoutURL   string   `json:"checkoutUrl"`
	TotalQuantity int      `json:"totalQuantity"`
	Cost          CartCost `json:"cost"`
	Lines         struct {
		Edges []struct {
			Node *Line `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
}

type mutationPayload struct {
	Cart       *remoteCart         `json:"cart"`
	UserErrors []shopify.UserError `json:"userErrors"`
}

// Proxy translates local cart operations into Storefront calls. It keeps no
// cart state; the cart id travels with the caller.
type Proxy struct {
	client shopify.Executor
	logger *logger.Logger
}

func NewProxy(client shopify.Executor, logger *logger.Logger) *Proxy {
	return &Proxy{client: client, logger: logger}
}

func (p *Proxy) Create(ctx context.Context) (*Cart, error) {
	payload, err := p.mutate(ctx, "cartCreate", shopify.CartCreateMutation, map[string]interface{}{
		"input": map[string]interface{}{},
	})
	if err != nil {
		return nil, err
	}
	if payload.Cart == nil || payload.Cart.ID == "" {
		return nil, &shopify.MalformedResponseError{Reason: "cartCreate returned no cart"}
	}
	return payload.Cart.flatten(), nil
}

// Get returns nil without error when cartID is empty or the remote cart
// has expired or been completed.
func (p *Proxy) Get(ctx context.Context, cartID string) (*Cart, error) {
	if cartID == "" {
		return nil, nil
	}

	data, err := p.client.Execute(ctx, shopify.ScopeStorefront, shopify.CartQuery, map[string]interface{}{"id": cartID})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Cart *remoteCart `json:"cart"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &shopify.MalformedResponseError{Reason: err.Error()}
	}
	if resp.Cart == nil {
		p.logger.Debug("Cart %s no longer resolves", cartID)
		return nil, nil
	}
	return resp.Cart.flatten(), nil
}

// AddLine adds a variant to the cart, creating a cart first when cartID is
// empty. The returned id is the cart the caller should keep; it is set even
// when the add itself fails after a cart was created.
func (p *Proxy) AddLine(ctx context.Context, cartID, variantID string, quantity int) (*Cart, string, error) {
	if strings.TrimSpace(variantID) == "" || quantity <= 0 {
		return nil, cartID, &ValidationError{Message: "variantId and quantity required"}
	}

	if cartID == "" {
		created, err := p.Create(ctx)
		if err != nil {
			return nil, "", err
		}
		cartID = created.ID
	}

	_, err := p.mutate(ctx, "cartLinesAdd", shopify.CartLinesAddMutation, map[string]interface{}{
		"cartId": cartID,
		"lines": []map[string]interface{}{{
			"merchandiseId": variantID,
			"quantity":      quantity,
		}},
	})
	if err != nil {
		return nil, cartID, err
	}

	cart, err := p.refresh(ctx, cartID)
	return cart, cartID, err
}

// UpdateLine sets a line quantity; zero removes the line remotely.
func (p *Proxy) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*Cart, error) {
	if strings.TrimSpace(lineID) == "" || quantity < 0 {
		return nil, &ValidationError{Message: "lineId and quantity required"}
	}
	if cartID == "" {
		return nil, ErrNoCart
	}

	_, err := p.mutate(ctx, "cartLinesUpdate", shopify.CartLinesUpdateMutation, map[string]interface{}{
		"cartId": cartID,
		"lines": []map[string]interface{}{{
			"id":       lineID,
			"quantity": quantity,
		}},
	})
	if err != nil {
		return nil, err
	}
	return p.refresh(ctx, cartID)
}

func (p *Proxy) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*Cart, error) {
	ids := make([]string, 0, len(lineIDs))
	for _, id := range lineIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, &ValidationError{Message: "lineIds required"}
	}
	if cartID == "" {
		return nil, ErrNoCart
	}

	_, err := p.mutate(ctx, "cartLinesRemove", shopify.CartLinesRemoveMutation, map[string]interface{}{
		"cartId":  cartID,
		"lineIds": ids,
	})
	if err != nil {
		return nil, err
	}
	return p.refresh(ctx, cartID)
}

// Checkout returns the remote checkout URL for the cart.
func (p *Proxy) Checkout(ctx context.Context, cartID string) (string, *Cart, error) {
	cart, err := p.Get(ctx, cartID)
	if err != nil {
		return "", nil, err
	}
	if cart == nil {
		return "", nil, ErrNoCart
	}
	return cart.CheckoutURL, cart, nil
}

func (p *Proxy) refresh(ctx context.Context, cartID string) (*Cart, error) {
	cart, err := p.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrNoCart
	}
	return cart, nil
}

func (p *Proxy) mutate(ctx context.Context, name, mutation string, variables map[string]interface{}) (*mutationPayload, error) {
	data, err := p.client.Execute(ctx, shopify.ScopeStorefront, mutation, variables)
	if err != nil {
		return nil, err
	}

	var resp map[string]*mutationPayload
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &shopify.MalformedResponseError{Reason: err.Error()}
	}
	payload := resp[name]
	if payload == nil {
		return nil, &shopify.MalformedResponseError{Reason: fmt.Sprintf("%s missing", name)}
	}
	if len(payload.UserErrors) > 0 {
		first := payload.UserErrors[0]
		p.logger.Debug("Shopify %s rejected: %s", name, first.Message)
		return nil, &RemoteRejectionError{
			Field:   strings.Join(first.Field, "."),
			Message: first.Message,
		}
	}
	return payload, nil
}

func (rc *remoteCart) flatten() *Cart {
	cart := &Cart{
		ID:            rc.ID,
		CheckoutURL:   rc.CheckoutURL,
		TotalQuantity: rc.TotalQuantity,
		Cost:          rc.Cost,
		Lines:         make([]Line, 0, len(rc.Lines.Edges)),
	}
	for _, edge := range rc.Lines.Edges {
		if edge.Node != nil {
			cart.Lines = append(cart.Lines, *edge.Node)
		}
	}
	return cart
}
