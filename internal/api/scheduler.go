package api

import (
	"context"
	"fmt"

	"github.com/hnguyen/recruitmail/internal/model"
)

// SchedulerStatus fetches the server-side scheduler configuration and
// its countdown to the next run.
func (c *Client) SchedulerStatus(ctx context.Context) (*model.SchedulerConfig, error) {
	var cfg model.SchedulerConfig
	if err := c.Get(ctx, "/api/scheduler/status", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveSchedulerConfig persists the scheduler settings. Enabled state
// and interval travel in the same request so a toggle and an interval
// edit cannot race each other server-side.
func (c *Client) SaveSchedulerConfig(ctx context.Context, cfg model.SchedulerConfig) (*model.SchedulerConfig, error) {
	if err := c.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid scheduler config: %w", err)
	}

	var saved model.SchedulerConfig
	if err := c.Post(ctx, "/api/scheduler/config", cfg, &saved); err != nil {
		return nil, err
	}
	c.log.WithFields(map[string]interface{}{
		"enabled":  saved.Enabled,
		"interval": saved.IntervalMinutes,
	}).Info("scheduler config saved")
	return &saved, nil
}

// RunSchedulerNow asks the server to kick off a scrape cycle
// immediately, outside the regular interval.
func (c *Client) RunSchedulerNow(ctx context.Context) error {
	return c.Post(ctx, "/api/scheduler/run-now", nil, nil)
}
