package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storesync/internal/models"
)

var ErrNotFound = errors.New("record not found")

// CatalogRepository is the local product store, keyed by external id.
type CatalogRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.Product, error)
	FindByHandle(ctx context.Context, handle string) (*models.Product, error)
	List(ctx context.Context, limit int) ([]models.Product, error)
	Upsert(ctx context.Context, product *models.Product) (*models.Product, error)
	Purge(ctx context.Context) (int64, error)

	GetSyncState(ctx context.Context) (*models.SyncState, error)
	MarkSyncStarted(ctx context.Context, at time.Time) error
	MarkSyncCompleted(ctx context.Context, at time.Time, count int) error
	MarkSyncFailed(ctx context.Context, at time.Time, cause error) error
}

// upsertColumns is every column a sync overwrites. id and created_at are
// kept from the first insert.
var upsertColumns = []string{
	"handle", "title", "description", "description_html", "vendor",
	"product_type", "status", "remote_updated_at", "featured_image_url",
	"options", "variants", "updated_at",
}

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&product).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// FindByHandle returns the most recently synced product carrying handle.
func (r *GormCatalogRepository) FindByHandle(ctx context.Context, handle string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("handle = ?", handle).
		Order("updated_at DESC").
		First(&product).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *GormCatalogRepository) List(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Upsert inserts product or fully overwrites the row with the same
// external id in a single statement, and returns the stored record.
func (r *GormCatalogRepository) Upsert(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ExternalID == "" {
		return nil, errors.New("product external id is required")
	}

	row := *product
	row.ID = ""
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert product %s: %w", product.ExternalID, err)
	}

	return r.FindByExternalID(ctx, product.ExternalID)
}

// Purge removes every local product and the sync state.
func (r *GormCatalogRepository) Purge(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SyncState{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge catalog: %w", err)
	}
	return deleted, nil
}

// GetSyncState never returns ErrNotFound; a catalog that was never synced
// reports an empty ACTIVE state.
func (r *GormCatalogRepository) GetSyncState(ctx context.Context) (*models.SyncState, error) {
	var state models.SyncState
	err := r.db.WithContext(ctx).First(&state, "scope = ?", models.SyncScopeProducts).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SyncState{Scope: models.SyncScopeProducts, Status: models.SyncStatusActive}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sync state: %w", err)
	}
	return &state, nil
}

func (r *GormCatalogRepository) MarkSyncStarted(ctx context.Context, at time.Time) error {
	return r.saveSyncState(ctx, map[string]interface{}{
		"status":          models.SyncStatusSyncing,
		"last_attempt_at": at,
	})
}

func (r *GormCatalogRepository) MarkSyncCompleted(ctx context.Context, at time.Time, count int) error {
	return r.saveSyncState(ctx, map[string]interface{}{
		"status":          models.SyncStatusActive,
		"last_sync_at":    at,
		"last_sync_count": count,
		"last_error":      "",
	})
}

func (r *GormCatalogRepository) MarkSyncFailed(ctx context.Context, at time.Time, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return r.saveSyncState(ctx, map[string]interface{}{
		"status":          models.SyncStatusError,
		"last_attempt_at": at,
		"last_error":      msg,
	})
}

func (r *GormCatalogRepository) saveSyncState(ctx context.Context, fields map[string]interface{}) error {
	db := r.db.WithContext(ctx)
	state := models.SyncState{Scope: models.SyncScopeProducts, Status: models.SyncStatusActive}
	if err := db.Where(models.SyncState{Scope: models.SyncScopeProducts}).FirstOrCreate(&state).Error; err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}
	if err := db.Model(&state).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
