package scheduler

import (
	"context"
	"time"

	"compliance_notifier/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds one scheduled notification run. Batch pauses dominate
// the runtime, so this is generous.
const runTimeout = 2 * time.Hour

// NotificationScheduler triggers the notification run on a cron schedule.
// The default deployment runs the pipeline once and exits; the scheduler is
// for installations that keep the notifier resident.
type NotificationScheduler struct {
	cronEngine *cron.Cron
	service    *app.NotificationService
	logger     *logrus.Logger
	spec       string
}

func NewNotificationScheduler(service *app.NotificationService, logger *logrus.Logger, spec string) *NotificationScheduler {
	return &NotificationScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		service:    service,
		logger:     logger,
		spec:       spec,
	}
}

func (s *NotificationScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.spec, func() {
		s.logger.Infof("Cron job triggered (schedule %q), starting notification run.", s.spec)
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		report, err := s.service.Run(ctx)
		if err != nil {
			s.logger.Errorf("Scheduled notification run failed: %v", err)
		}
		if report != nil {
			s.logger.Info(report.Summary())
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("Notification scheduler started with schedule %q.", s.spec)
	return nil
}

func (s *NotificationScheduler) Stop() {
	s.logger.Info("Stopping notification scheduler...")
	ctx := s.cronEngine.Stop() // waits for a running job to finish
	<-ctx.Done()
	s.logger.Info("Notification scheduler gracefully stopped.")
}
