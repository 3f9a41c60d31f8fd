// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	xglog "github.com/ManuGH/deeplinks/internal/log"
)

// runSchedule triggers Refresh on the configured cron spec until ctx is done.
func (s *Server) runSchedule(ctx context.Context) error {
	logger := xglog.WithComponentFromContext(ctx, "api")

	c := cron.New()
	id, err := c.AddFunc(s.cfg.Server.RefreshCron, func() { s.refresh(ctx) })
	if err != nil {
		return fmt.Errorf("schedule refresh %q: %w", s.cfg.Server.RefreshCron, err)
	}
	c.Start()

	logger.Info().
		Str(xglog.FieldEvent, "refresh.scheduled").
		Str("cron", s.cfg.Server.RefreshCron).
		Time("next", c.Entry(id).Next).
		Msg("scheduled artifact refresh")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// refresh runs one regeneration. Runs never overlap.
func (s *Server) refresh(ctx context.Context) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if ctx.Err() != nil {
		return
	}
	logger := xglog.WithComponentFromContext(ctx, "api")
	if err := s.deps.Refresh(ctx); err != nil {
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "refresh.failed").
			Msg("scheduled refresh failed")
		return
	}
	logger.Debug().Str(xglog.FieldEvent, "refresh.done").Msg("scheduled refresh finished")
}
