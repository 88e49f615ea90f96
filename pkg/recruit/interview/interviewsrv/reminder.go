package interviewsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/config"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/metrics"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/robfig/cron/v3"
)

// ReminderService mails candidates ahead of their Pending interviews. Each
// interview is reminded at most once.
type ReminderService struct {
	interviews interview.InterviewRepository
	directory  interview.CandidateDirectory
	notifier   interview.Notifier
	metrics    *metrics.Metrics
	config     *config.InterviewConfig

	cron *cron.Cron
	now  func() time.Time
}

func NewReminderService(
	interviews interview.InterviewRepository,
	directory interview.CandidateDirectory,
	notifier interview.Notifier,
	m *metrics.Metrics,
	cfg *config.InterviewConfig,
) *ReminderService {
	loc := cfg.Location()
	return &ReminderService{
		interviews: interviews,
		directory:  directory,
		notifier:   notifier,
		metrics:    m,
		config:     cfg,
		cron:       cron.New(cron.WithLocation(loc)),
		now:        func() time.Time { return time.Now().In(loc) },
	}
}

// Start schedules the reminder sweep
func (r *ReminderService) Start() error {
	if !r.config.ReminderEnabled {
		logx.Info("Interview reminders are disabled, skipping scheduler")
		return nil
	}

	_, err := r.cron.AddFunc(r.config.ReminderSchedule, func() {
		if _, err := r.RunOnce(context.Background()); err != nil {
			logx.WithError(err).Error("Interview reminder sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule interview reminders: %w", err)
	}

	r.cron.Start()
	logx.Infof("⏰ Interview reminders scheduled (%s, lead time %s)", r.config.ReminderSchedule, r.config.ReminderLeadTime)
	return nil
}

// Stop waits for a running sweep to finish
func (r *ReminderService) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
		logx.Info("Interview reminders stopped")
	}
}

// RunOnce sends the reminders due now and returns how many were sent.
// A failed delivery is retried on the next sweep.
func (r *ReminderService) RunOnce(ctx context.Context) (int, error) {
	now := r.now()
	due, err := r.interviews.FindDueForReminder(ctx, now, now.Add(r.config.ReminderLeadTime))
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]kernel.CandidateID, 0, len(due))
	jobs := make([]kernel.JobID, 0, len(due))
	for _, iv := range due {
		ids = append(ids, iv.CandidateID)
		jobs = append(jobs, iv.JobID)
	}
	people, err := r.directory.Lookup(ctx, ids)
	if err != nil {
		return 0, err
	}
	titles, err := r.directory.JobTitles(ctx, jobs)
	if err != nil {
		logx.WithError(err).Warn("Job title lookup failed, reminders go out without titles")
	}

	sent := 0
	for _, iv := range due {
		who, ok := people[iv.CandidateID]
		if !ok {
			r.metrics.Reminder("skipped")
			continue
		}
		if t, ok := titles[iv.JobID]; ok {
			who.JobTitle = t
		}

		if err := r.notifier.InterviewReminder(ctx, *iv, who); err != nil {
			r.metrics.Reminder("failed")
			logx.WithFields(logx.Fields{"interview_id": iv.ID}).WithError(err).Warn("Interview reminder not sent")
			continue
		}
		if err := r.interviews.MarkReminderSent(ctx, iv.ID, now); err != nil {
			logx.WithFields(logx.Fields{"interview_id": iv.ID}).WithError(err).Error("Reminder sent but not recorded")
		}
		r.metrics.Reminder("sent")
		sent++
	}

	logx.Infof("Interview reminders: %d of %d sent", sent, len(due))
	return sent, nil
}
