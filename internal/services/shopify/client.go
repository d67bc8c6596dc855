package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storesync/internal/config"
	"storesync/internal/logger"
)

// Scope selects the credential and endpoint a request runs under.
type Scope int

const (
	ScopeAdmin Scope = iota
	ScopeStorefront
)

func (s Scope) String() string {
	if s == ScopeStorefront {
		return "storefront"
	}
	return "admin"
}

// Executor runs a GraphQL document and returns the raw "data" member.
type Executor interface {
	Execute(ctx context.Context, scope Scope, query string, variables map[string]interface{}) (json.RawMessage, error)
}

type Client struct {
	baseURL         string
	apiVersion      string
	adminToken      string
	storefrontToken string
	httpClient      *http.Client
	logger          *logger.Logger
}

const defaultTimeout = 30 * time.Second

func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	timeout := cfg.ShopifyTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:         shopBaseURL(cfg.ShopDomain),
		apiVersion:      config.ResolveAPIVersion(cfg.APIVersion),
		adminToken:      cfg.AdminToken,
		storefrontToken: cfg.StorefrontToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// APIVersion returns the version resolved when the client was built.
func (c *Client) APIVersion() string {
	return c.apiVersion
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage    `json:"data"`
	Errors []GraphQLErrorItem `json:"errors"`
}

func (c *Client) Execute(ctx context.Context, scope Scope, query string, variables map[string]interface{}) (json.RawMessage, error) {
	if variables == nil {
		variables = map[string]interface{}{}
	}
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(scope), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if scope == ScopeStorefront {
		req.Header.Set("X-Shopify-Storefront-Access-Token", c.storefrontToken)
	} else {
		req.Header.Set("X-Shopify-Access-Token", c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Shopify %s request failed: %v", scope, err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, &MalformedResponseError{Reason: "non-JSON body"}
	}

	if len(gqlResp.Errors) > 0 {
		return nil, &GraphQLError{Errors: gqlResp.Errors}
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return nil, &MalformedResponseError{Reason: "missing data"}
	}

	return gqlResp.Data, nil
}

func (c *Client) endpoint(scope Scope) string {
	if scope == ScopeStorefront {
		return fmt.Sprintf("%s/api/%s/graphql.json", c.baseURL, c.apiVersion)
	}
	return fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL, c.apiVersion)
}

// shopBaseURL accepts "shop", "shop.myshopify.com" or a full URL.
func shopBaseURL(shopDomain string) string {
	domain := strings.TrimRight(strings.TrimSpace(shopDomain), "/")
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return domain
	}
	if !strings.Contains(domain, ".") {
		domain += ".myshopify.com"
	}
	return "https://" + domain
}
