package app

import (
	"compliance_notifier/internal/domain/vendor"
)

// Decision is the admission outcome for one vendor.
type Decision int

const (
	DecisionProceed Decision = iota
	DecisionSkipDuplicate
	DecisionSkipNoTeam
)

func (d Decision) String() string {
	switch d {
	case DecisionProceed:
		return "PROCEED"
	case DecisionSkipDuplicate:
		return "SKIP_DUPLICATE"
	case DecisionSkipNoTeam:
		return "SKIP_NO_TEAM"
	}
	return "UNKNOWN"
}

// Skip reasons as they appear in the exported skip log.
const (
	ReasonDuplicateRecipients = "Duplicate Recipients"
	ReasonUnrecognizedUnit    = "Unrecognized CS"
)

// SkipEntry is one row of the skip log.
type SkipEntry struct {
	VendorID string
	Reason   string
}

// Counts are the run counters surfaced in the summary line.
type Counts struct {
	Total      int
	Duplicates int
	UnitErrors int
	Successful int
}

// RunState is the only mutable state carried across vendor iterations: the
// union of every address placed in a To field so far, the ordered skip log,
// and the counters. It is created per run and passed explicitly, never held
// in a package variable. Single-threaded today; a parallel dispatcher would
// have to make Admit's check-and-insert atomic.
type RunState struct {
	contacted map[string]struct{}
	SkipLog   []SkipEntry
	Counts    Counts
}

func NewRunState() *RunState {
	return &RunState{contacted: make(map[string]struct{})}
}

// Contacted reports whether an address has already received a notification
// this run.
func (s *RunState) Contacted(addr string) bool {
	_, ok := s.contacted[addr]
	return ok
}

// Admit decides whether a vendor's notification proceeds. The duplicate and
// unrecognized-unit checks are independent: a duplicate vendor with no
// account team logs both reasons, and a non-duplicate vendor with no team is
// still skipped. Only a Proceed commits the vendor's To-set to the
// contacted-recipient union.
func (s *RunState) Admit(v *vendor.Vendor) Decision {
	duplicate := false
	for _, addr := range v.ToAddresses() {
		if s.Contacted(addr) {
			duplicate = true
			break
		}
	}
	noTeam := len(v.AccountTeam) == 0

	if duplicate {
		s.Counts.Duplicates++
		s.SkipLog = append(s.SkipLog, SkipEntry{v.ID, ReasonDuplicateRecipients})
		if noTeam {
			s.Counts.UnitErrors++
			s.SkipLog = append(s.SkipLog, SkipEntry{v.ID, ReasonUnrecognizedUnit})
		}
		return DecisionSkipDuplicate
	}
	if noTeam {
		s.Counts.UnitErrors++
		s.SkipLog = append(s.SkipLog, SkipEntry{v.ID, ReasonUnrecognizedUnit})
		return DecisionSkipNoTeam
	}

	for _, addr := range v.ToAddresses() {
		s.contacted[addr] = struct{}{}
	}
	return DecisionProceed
}
