package services

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/starterapp/rkeeper-adapter/utils"
)

// Scheduler drives the periodic syncs: shops, menu and order statuses, each
// on its own cron spec.
type Scheduler struct {
	cron *cron.Cron
	sync *SyncService

	shopsSpec    string
	menuSpec     string
	statusesSpec string
}

func NewScheduler(syncSvc *SyncService, shopsSpec, menuSpec, statusesSpec string) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		sync:         syncSvc,
		shopsSpec:    shopsSpec,
		menuSpec:     menuSpec,
		statusesSpec: statusesSpec,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.shopsSpec, func() {
		s.sync.SyncShopsAll(context.Background())
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.menuSpec, func() {
		s.sync.SyncMenuAll(context.Background())
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.statusesSpec, func() {
		s.sync.SyncOrderStatusesAll(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	utils.InfoLogger.Info("Scheduler started")
	return nil
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
