package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storesync/internal/config"
	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/repository"
	shopifysvc "storesync/internal/services/shopify"
)

const (
	defaultPageSize = 50
	maxPageSize     = 250
)

// SyncResult summarizes one completed run.
type SyncResult struct {
	Synced          int       `json:"syncedCount"`
	Pages           int       `json:"pages"`
	SkippedProducts int       `json:"skippedProducts"`
	SkippedVariants int       `json:"skippedVariants"`
	CompletedAt     time.Time `json:"lastSyncAt"`
}

// ShopifyConnector mirrors the remote catalog into the local repository.
// Runs are sequential and must not overlap; callers serialize them.
type ShopifyConnector struct {
	client      shopifysvc.Executor
	repo        repository.CatalogRepository
	publisher   events.Publisher
	transformer *shopifysvc.Transformer
	logger      *logger.Logger
	pageSize    int
	now         func() time.Time
}

func New(cfg *config.Config, client shopifysvc.Executor, repo repository.CatalogRepository, publisher events.Publisher, logger *logger.Logger) *ShopifyConnector {
	pageSize := cfg.SyncPageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &ShopifyConnector{
		client:      client,
		repo:        repo,
		publisher:   publisher,
		transformer: shopifysvc.NewTransformer(),
		logger:      logger,
		pageSize:    pageSize,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SyncProducts runs one full pass over the remote catalog. A failed page
// fetch aborts the run; products upserted from earlier pages stay
// committed. Pagination state is never persisted between runs.
func (sc *ShopifyConnector) SyncProducts(ctx context.Context) (*SyncResult, error) {
	started := sc.now()
	if err := sc.repo.MarkSyncStarted(ctx, started); err != nil {
		sc.logger.Warn("Failed to record sync start: %v", err)
	}

	result, err := sc.syncPages(ctx)
	if err != nil {
		if markErr := sc.repo.MarkSyncFailed(ctx, sc.now(), err); markErr != nil {
			sc.logger.Warn("Failed to record sync failure: %v", markErr)
		}
		sc.publish(ctx, events.TypeSyncFailed, result.Synced, err)
		return nil, err
	}

	result.CompletedAt = sc.now()
	if err := sc.repo.MarkSyncCompleted(ctx, result.CompletedAt, result.Synced); err != nil {
		return nil, fmt.Errorf("failed to persist sync state: %w", err)
	}

	sc.logger.Info("Catalog sync completed: %d products in %d pages (%d products, %d variants skipped)",
		result.Synced, result.Pages, result.SkippedProducts, result.SkippedVariants)
	sc.publish(ctx, events.TypeSyncCompleted, result.Synced, nil)

	return result, nil
}

func (sc *ShopifyConnector) syncPages(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{}
	var cursor *string

	for {
		page, err := sc.fetchPage(ctx, cursor)
		if err != nil {
			return result, fmt.Errorf("page %d: %w", result.Pages+1, err)
		}
		result.Pages++

		for _, edge := range page.Products.Edges {
			product, dropped, err := sc.transformer.TransformProduct(shopifysvc.EdgeNode(edge), page.Shop.CurrencyCode)
			if err != nil {
				sc.logger.Warn("Skipping product on page %d: %v", result.Pages, err)
				result.SkippedProducts++
				continue
			}
			result.SkippedVariants += dropped

			if _, err := sc.repo.Upsert(ctx, product); err != nil {
				return result, err
			}
			result.Synced++
		}

		info := page.Products.PageInfo
		if !info.HasNextPage {
			return result, nil
		}
		if info.EndCursor == "" {
			return result, &shopifysvc.MalformedResponseError{Reason: "hasNextPage without endCursor"}
		}
		next := info.EndCursor
		cursor = &next
	}
}

func (sc *ShopifyConnector) fetchPage(ctx context.Context, cursor *string) (*shopifysvc.ProductsPage, error) {
	variables := map[string]interface{}{
		"first": sc.pageSize,
		"after": nil,
	}
	if cursor != nil {
		variables["after"] = *cursor
	}

	data, err := sc.client.Execute(ctx, shopifysvc.ScopeAdmin, shopifysvc.ProductsQuery, variables)
	if err != nil {
		return nil, err
	}

	var page shopifysvc.ProductsPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, &shopifysvc.MalformedResponseError{Reason: err.Error()}
	}
	if page.Products == nil {
		return nil, &shopifysvc.MalformedResponseError{Reason: "products missing"}
	}

	return &page, nil
}

func (sc *ShopifyConnector) publish(ctx context.Context, eventType string, count int, cause error) {
	event := events.NewEvent(eventType)
	event.Count = count
	event.Source = "shopify"
	if cause != nil {
		event.Error = cause.Error()
	}
	if err := sc.publisher.Publish(ctx, event); err != nil {
		sc.logger.Warn("Failed to publish %s: %v", eventType, err)
	}
}
