package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"compliance_notifier/internal/domain/email"
	"compliance_notifier/internal/domain/team"
	"compliance_notifier/internal/domain/vendor"

	"github.com/sirupsen/logrus"
)

// maxSendAttempts bounds the pause-and-retry loop for rate-limited sends.
const maxSendAttempts = 3

// notifiedStatuses selects which compliance states trigger a notification.
var notifiedStatuses = []vendor.ComplianceStatus{
	vendor.StatusNotCompliant,
	vendor.StatusInfractionLogged,
	vendor.StatusPendingReview,
}

// NotificationService runs the full pipeline: load both warehouse datasets,
// resolve each vendor's contacts, gate on admission, compose and dispatch in
// rate-limited batches, then export the skip log and summary.
type NotificationService struct {
	vendorRepo vendor.Repository
	teamRepo   team.Repository
	sender     email.Sender
	composer   *Composer
	skipWriter SkipLogWriter
	notifier   SummaryNotifier // optional
	logger     *logrus.Logger

	batchSize  int
	batchPause time.Duration
	retryPause time.Duration
	sleep      func(time.Duration) // injectable for tests
}

func NewNotificationService(
	vendorRepo vendor.Repository,
	teamRepo team.Repository,
	sender email.Sender,
	composer *Composer,
	skipWriter SkipLogWriter,
	notifier SummaryNotifier,
	logger *logrus.Logger,
	batchSize int,
	batchPause time.Duration,
) *NotificationService {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &NotificationService{
		vendorRepo: vendorRepo,
		teamRepo:   teamRepo,
		sender:     sender,
		composer:   composer,
		skipWriter: skipWriter,
		notifier:   notifier,
		logger:     logger,
		batchSize:  batchSize,
		batchPause: batchPause,
		retryPause: batchPause,
		sleep:      time.Sleep,
	}
}

// Run executes one notification run. It always returns a report, and the
// skip log gathered so far is flushed even when a fatal dispatch error
// aborts the remaining batch.
func (s *NotificationService) Run(ctx context.Context) (*RunReport, error) {
	started := time.Now()
	s.logger.Info("Starting vendor compliance notification run")

	records, err := s.vendorRepo.ListNonCompliant(ctx, notifiedStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor compliance records: %w", err)
	}
	s.logger.Infof("Loaded %d vendor compliance rows", len(records))

	dirRecords, err := s.teamRepo.ListDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account-team directory: %w", err)
	}
	s.logger.Infof("Loaded %d account-team directory rows", len(dirRecords))

	resolver := vendor.NewResolver(team.NewDirectory(dirRecords))
	vendors, stats := resolver.Resolve(records)
	if stats.MalformedRows > 0 || stats.ConflictVendors > 0 {
		s.logger.Warnf("Resolution dropped %d malformed rows and %d conflicting vendors",
			stats.MalformedRows, stats.ConflictVendors)
	}
	s.logger.Infof("Resolved %d vendors for processing", len(vendors))

	state := NewRunState()
	report := &RunReport{Resolve: stats}
	runErr := s.process(ctx, vendors, state, report)

	report.Counts = state.Counts
	report.SkipLog = state.SkipLog

	if s.skipWriter != nil {
		if err := s.skipWriter.WriteSkipLog(state.SkipLog); err != nil {
			s.logger.Errorf("Failed to export skip log: %v", err)
		}
	}

	s.logger.Infof("Run finished in %s: %s", time.Since(started).Round(time.Millisecond), report.Summary())
	if s.notifier != nil {
		if err := s.notifier.NotifySummary(report.Summary()); err != nil {
			s.logger.Warnf("Failed to post run summary: %v", err)
		}
	}
	return report, runErr
}

// process iterates the vendors in stable source order. Each vendor is fully
// resolved, admitted-or-skipped, composed and dispatched before the next
// begins; a blocking pause follows every full batch of sends.
func (s *NotificationService) process(ctx context.Context, vendors []*vendor.Vendor, state *RunState, report *RunReport) error {
	for i, v := range vendors {
		state.Counts.Total++
		log := s.logger.WithFields(logrus.Fields{"vendor_id": v.ID, "vendor_name": v.Name})

		switch decision := state.Admit(v); decision {
		case DecisionSkipDuplicate:
			log.Info("Vendor contacts were notified earlier this run. Skipping.")
			continue
		case DecisionSkipNoTeam:
			log.Warnf("Business unit %q is not recognized. Skipping.", v.Compliance.BusinessUnit)
			continue
		}

		msg, err := s.composer.Compose(v)
		if err != nil {
			return fmt.Errorf("failed to compose notification for vendor %s: %w", v.ID, err)
		}

		if err := s.dispatch(ctx, msg, log); err != nil {
			log.Errorf("Dispatch failed, aborting remaining batch: %v", err)
			return err
		}
		state.Counts.Successful++
		log.Infof("Notification sent to %d recipients, %d copied", len(msg.To), len(msg.Cc))

		if state.Counts.Successful%s.batchSize == 0 && i+1 < len(vendors) {
			report.PauseEvents++
			s.logger.Infof("Batch of %d sent, pausing %s before continuing", s.batchSize, s.batchPause)
			s.sleep(s.batchPause)
		}
	}
	return nil
}

// dispatch sends one message, pausing and retrying the already-composed
// message on rate limiting. Attachment and client failures abort the run;
// a notification is never silently dropped.
func (s *NotificationService) dispatch(ctx context.Context, msg email.Message, log *logrus.Entry) error {
	for attempt := 1; ; attempt++ {
		err := s.sender.Send(ctx, msg)
		if err == nil {
			return nil
		}

		var sendErr *email.SendError
		if errors.As(err, &sendErr) && sendErr.Kind == email.ErrRateLimited && attempt < maxSendAttempts {
			log.Warnf("Rate limited by mail client (attempt %d/%d), pausing %s", attempt, maxSendAttempts, s.retryPause)
			s.sleep(s.retryPause)
			continue
		}
		return fmt.Errorf("failed to send notification: %w", err)
	}
}
