package store

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler перечитывает источник по cron-расписанию ("*/10 * * * *", "@every 5m").
type Scheduler struct {
	cron    *cron.Cron
	store   *Store
	timeout time.Duration
}

func NewScheduler(st *Store, spec string, timeout time.Duration) (*Scheduler, error) {
	if timeout <= 0 {
		timeout = time.Minute
	}
	s := &Scheduler{cron: cron.New(), store: st, timeout: timeout}
	if _, err := s.cron.AddFunc(spec, s.reload); err != nil {
		return nil, fmt.Errorf("bad reload schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.store.log.Info().Msg("reload scheduler started")
	s.cron.Start()
}

// Stop ждёт завершения уже запущенной перезагрузки.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.store.log.Info().Msg("reload scheduler stopped")
}

func (s *Scheduler) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.store.Reload(ctx)
}
