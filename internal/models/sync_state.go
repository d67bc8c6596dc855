package models

import (
	"time"
)

// SyncState is the process-wide record of catalog sync runs, one row per
// sync scope. LastSyncAt and LastSyncCount only move on a completed run.
type SyncState struct {
	Scope         string     `json:"scope" gorm:"primaryKey"`
	Status        SyncStatus `json:"status" gorm:"default:ACTIVE"`
	LastSyncAt    *time.Time `json:"last_sync_at"`
	LastSyncCount int        `json:"last_sync_count"`
	LastAttemptAt *time.Time `json:"last_attempt_at"`
	LastError     string     `json:"last_error"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

const SyncScopeProducts = "products"

type SyncStatus string

const (
	SyncStatusActive  SyncStatus = "ACTIVE"
	SyncStatusSyncing SyncStatus = "SYNCING"
	SyncStatusError   SyncStatus = "ERROR"
)
