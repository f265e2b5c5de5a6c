package app

import (
	"fmt"

	"compliance_notifier/internal/domain/vendor"
)

// SkipLogWriter exports the skip log at the end of a run. The pipeline
// flushes it even when a fatal dispatch error aborts the remaining batch.
type SkipLogWriter interface {
	WriteSkipLog(entries []SkipEntry) error
}

// SummaryNotifier posts the end-of-run summary to an ops channel. Optional.
type SummaryNotifier interface {
	NotifySummary(summary string) error
}

// RunReport is the immutable outcome of one run. Nothing mutates it after
// the pipeline finishes.
type RunReport struct {
	Counts      Counts
	SkipLog     []SkipEntry
	Resolve     vendor.ResolveStats
	PauseEvents int
}

// Summary renders the single human-readable summary line for the run.
func (r *RunReport) Summary() string {
	return fmt.Sprintf(
		"processed %d vendors: %d notifications sent, %d duplicate-recipient skips, %d unrecognized-unit skips",
		r.Counts.Total, r.Counts.Successful, r.Counts.Duplicates, r.Counts.UnitErrors)
}
