package api

import (
	"context"
	"errors"
)

// ErrConfirmRequired is returned by ClearData when the confirmation
// phrase does not match.
var ErrConfirmRequired = errors.New("type CONFIRM to delete all data")

// StorageHealth reports server-side database health and row counts.
type StorageHealth struct {
	Status     string `json:"status"`
	DBSizeMB   float64 `json:"db_size_mb"`
	Emails     int    `json:"emails"`
	Candidates int    `json:"candidates"`
	Jobs       int    `json:"jobs"`
}

// BackupResult describes a completed server-side backup.
type BackupResult struct {
	Path      string `json:"path"`
	CreatedAt string `json:"created_at"`
}

// GetStorageHealth fetches database health and row counts.
func (c *Client) GetStorageHealth(ctx context.Context) (*StorageHealth, error) {
	var out StorageHealth
	if err := c.Get(ctx, "/api/storage/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Backup triggers a server-side database backup.
func (c *Client) Backup(ctx context.Context) (*BackupResult, error) {
	var out BackupResult
	if err := c.Post(ctx, "/api/storage/backup", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearData wipes all server-side data. The confirmation phrase must
// be exactly "CONFIRM"; anything else, including a lowercase
// "confirm", aborts before any request is made.
func (c *Client) ClearData(ctx context.Context, confirmation string) error {
	if confirmation != "CONFIRM" {
		return ErrConfirmRequired
	}
	if err := c.Delete(ctx, "/api/storage/data", nil, nil); err != nil {
		return err
	}
	c.log.Warn("all server-side data cleared")
	return nil
}
