package badger

import (
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Maintenance runs periodic Badger housekeeping on a cron schedule.
// Value-log GC reclaims space left behind by expired cache entries.
type Maintenance struct {
	db     *BadgerDB
	cron   *cron.Cron
	logger arbor.ILogger
}

// NewMaintenance creates a maintenance runner for the given database
func NewMaintenance(db *BadgerDB, logger arbor.ILogger) *Maintenance {
	return &Maintenance{
		db:     db,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules value-log GC with the given cron expression
func (m *Maintenance) Start(schedule string) error {
	_, err := m.cron.AddFunc(schedule, m.runGC)
	if err != nil {
		return err
	}
	m.cron.Start()
	m.logger.Debug().Str("schedule", schedule).Msg("Badger maintenance scheduled")
	return nil
}

// Stop halts the maintenance schedule
func (m *Maintenance) Stop() {
	m.cron.Stop()
}

// runGC runs value-log GC until badger reports nothing left to rewrite
func (m *Maintenance) runGC() {
	rewritten := 0
	for {
		err := m.db.Store().Badger().RunValueLogGC(0.5)
		if err != nil {
			break
		}
		rewritten++
	}
	if rewritten > 0 {
		m.logger.Info().Int("files_rewritten", rewritten).Msg("Badger value log GC completed")
	}
}
