package scheduler

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs named background jobs on cron specs.
type Scheduler struct {
	cron *cron.Cron
	log  logrus.FieldLogger
}

// New creates an idle scheduler. Panics inside jobs are recovered and logged.
func New(log logrus.FieldLogger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{log})))
	return &Scheduler{cron: c, log: log}
}

// Add registers job under spec, which accepts standard five-field specs and
// descriptors such as "@every 30s".
func (s *Scheduler) Add(name, spec string, job func()) error {
	if job == nil {
		return errors.New("job must not be nil")
	}
	_, err := s.cron.AddFunc(spec, func() {
		s.log.WithField("job", name).Debug("running scheduled job")
		job()
	})
	if err != nil {
		return fmt.Errorf("add cron %s: %w", name, err)
	}
	return nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

// Start begins cron execution.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// DBStatsRecorder receives connection pool snapshots.
type DBStatsRecorder interface {
	RecordDBPoolStats(stats sql.DBStats)
}

// DBStatsJob returns a job that copies db.Stats() into rec.
func DBStatsJob(db *sql.DB, rec DBStatsRecorder) func() {
	return func() {
		rec.RecordDBPoolStats(db.Stats())
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(kv []interface{}) logrus.Fields {
	out := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
