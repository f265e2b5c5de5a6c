package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"
	"time"

	"compliance_notifier/internal/domain/email"
	"compliance_notifier/internal/domain/team"
	"compliance_notifier/internal/domain/vendor"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVendorRepo struct {
	records []vendor.Record
	err     error
}

func (f *fakeVendorRepo) ListNonCompliant(context.Context, []vendor.ComplianceStatus) ([]vendor.Record, error) {
	return f.records, f.err
}

type fakeTeamRepo struct {
	records []team.Record
}

func (f *fakeTeamRepo) ListDirectory(context.Context) ([]team.Record, error) {
	return f.records, nil
}

type fakeSender struct {
	sent     []email.Message
	failures map[int]error // attempt ordinal (1-based, across all calls) -> error
	calls    int
}

func (f *fakeSender) Send(_ context.Context, msg email.Message) error {
	f.calls++
	if err, ok := f.failures[f.calls]; ok {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeSkipWriter struct {
	written [][]SkipEntry
}

func (f *fakeSkipWriter) WriteSkipLog(entries []SkipEntry) error {
	f.written = append(f.written, entries)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fullRecord builds one well-formed join row with an embedded account team.
func fullRecord(id, contactEmail string) vendor.Record {
	valid := func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
	return vendor.Record{
		VendorID:         id,
		VendorName:       "Vendor " + id,
		ContactFirstName: "Contact",
		ContactLastName:  id,
		ContactEmail:     contactEmail,
		ContactRole:      "Primary",
		Status:           vendor.StatusNotCompliant,
		BusinessUnit:     valid("D16"),
		DirectorName:     valid("Boss, Big"),
		DirectorEmail:    valid("big.boss@corp.com"),
		ManagerName:      valid("Lead, Team"),
		ManagerEmail:     valid("team.lead@corp.com"),
		AnalystFirstName: valid("Ana"),
		AnalystLastName:  valid("First"),
		AnalystEmail:     valid("ana.first@corp.com"),
	}
}

func newTestService(vr *fakeVendorRepo, sender *fakeSender, writer *fakeSkipWriter, batchSize int) (*NotificationService, *[]time.Duration) {
	svc := NewNotificationService(
		vr, &fakeTeamRepo{}, sender,
		NewComposer("guidelines.pdf", "corp.com"),
		writer, nil, quietLogger(), batchSize, 30*time.Second,
	)
	var pauses []time.Duration
	svc.sleep = func(d time.Duration) { pauses = append(pauses, d) }
	return svc, &pauses
}

func TestRunSendsOnePerVendorAndCounts(t *testing.T) {
	vr := &fakeVendorRepo{records: []vendor.Record{
		fullRecord("A001", "a001@x.com"),
		fullRecord("A002", "a002@x.com"),
	}}
	sender := &fakeSender{}
	writer := &fakeSkipWriter{}
	svc, _ := newTestService(vr, sender, writer, 5)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Counts.Total)
	assert.Equal(t, 2, report.Counts.Successful)
	assert.Zero(t, report.Counts.Duplicates)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, []string{"a001@x.com"}, sender.sent[0].To)
	require.Len(t, writer.written, 1, "skip log is exported even when empty")
	assert.Empty(t, writer.written[0])
}

func TestRunSkipsSharedRecipientVendor(t *testing.T) {
	// A002 shares its only contact with the earlier A001 and must be skipped
	// with a logged reason.
	vr := &fakeVendorRepo{records: []vendor.Record{
		fullRecord("A001", "shared@x.com"),
		fullRecord("A002", "shared@x.com"),
	}}
	sender := &fakeSender{}
	writer := &fakeSkipWriter{}
	svc, _ := newTestService(vr, sender, writer, 5)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Counts.Successful)
	assert.Equal(t, 1, report.Counts.Duplicates)
	require.NotEmpty(t, report.SkipLog)
	assert.Equal(t, SkipEntry{"A002", ReasonDuplicateRecipients}, report.SkipLog[0])
	require.Len(t, writer.written, 1)
	assert.Equal(t, report.SkipLog, writer.written[0])
}

func TestRunSkipsUnrecognizedUnit(t *testing.T) {
	bad := fullRecord("A003", "a003@x.com")
	bad.BusinessUnit = sql.NullString{String: "X42", Valid: true}
	vr := &fakeVendorRepo{records: []vendor.Record{bad}}
	sender := &fakeSender{}
	writer := &fakeSkipWriter{}
	svc, _ := newTestService(vr, sender, writer, 5)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Counts.Successful)
	assert.Equal(t, 1, report.Counts.UnitErrors)
	require.Len(t, report.SkipLog, 1)
	assert.Equal(t, SkipEntry{"A003", ReasonUnrecognizedUnit}, report.SkipLog[0])
	assert.Empty(t, sender.sent)
}

func TestRunPausesBetweenBatches(t *testing.T) {
	// 12 vendors, batch size 5: pause after vendor 5 and vendor 10, no pause
	// after the final vendor.
	var records []vendor.Record
	for i := 1; i <= 12; i++ {
		id := fmt.Sprintf("A%03d", i)
		records = append(records, fullRecord(id, id+"@x.com"))
	}
	vr := &fakeVendorRepo{records: records}
	sender := &fakeSender{}
	svc, pauses := newTestService(vr, sender, &fakeSkipWriter{}, 5)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, report.Counts.Successful)
	assert.Equal(t, 2, report.PauseEvents)
	assert.Len(t, *pauses, 2)
}

func TestRunRetriesRateLimitedSend(t *testing.T) {
	vr := &fakeVendorRepo{records: []vendor.Record{fullRecord("A001", "a001@x.com")}}
	sender := &fakeSender{failures: map[int]error{
		1: email.NewSendError(email.ErrRateLimited, fmt.Errorf("421 try again later")),
	}}
	svc, pauses := newTestService(vr, sender, &fakeSkipWriter{}, 5)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Counts.Successful)
	assert.Equal(t, 2, sender.calls, "the same composed message is retried")
	assert.Len(t, *pauses, 1, "a rate-limit retry pauses first")
}

func TestRunAbortsOnClientUnavailableButFlushesSkipLog(t *testing.T) {
	vr := &fakeVendorRepo{records: []vendor.Record{
		fullRecord("A001", "shared@x.com"),
		fullRecord("A002", "shared@x.com"), // duplicate, logged before the abort
		fullRecord("A003", "a003@x.com"),   // send fails fatally
		fullRecord("A004", "a004@x.com"),   // never attempted
	}}
	sender := &fakeSender{failures: map[int]error{
		2: email.NewSendError(email.ErrClientUnavailable, fmt.Errorf("connection refused")),
	}}
	writer := &fakeSkipWriter{}
	svc, _ := newTestService(vr, sender, writer, 5)

	report, err := svc.Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Counts.Successful)
	assert.Equal(t, 1, report.Counts.Duplicates)
	assert.Equal(t, 2, sender.calls, "A004 is never attempted after the abort")
	require.Len(t, writer.written, 1, "skip log gathered so far is still flushed")
	assert.Equal(t, []SkipEntry{{"A002", ReasonDuplicateRecipients}}, writer.written[0])
}

func TestRunFailsWhenRateLimitPersists(t *testing.T) {
	rateErr := email.NewSendError(email.ErrRateLimited, fmt.Errorf("421 slow down"))
	vr := &fakeVendorRepo{records: []vendor.Record{fullRecord("A001", "a001@x.com")}}
	sender := &fakeSender{failures: map[int]error{1: rateErr, 2: rateErr, 3: rateErr}}
	svc, _ := newTestService(vr, sender, &fakeSkipWriter{}, 5)

	report, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, maxSendAttempts, sender.calls)
	assert.Zero(t, report.Counts.Successful)
}

func TestRunReportSummaryLine(t *testing.T) {
	r := &RunReport{Counts: Counts{Total: 4, Successful: 2, Duplicates: 1, UnitErrors: 1}}
	s := r.Summary()
	assert.Contains(t, s, "processed 4 vendors")
	assert.Contains(t, s, "2 notifications sent")
	assert.Contains(t, s, "1 duplicate-recipient skips")
	assert.Contains(t, s, "1 unrecognized-unit skips")
}
