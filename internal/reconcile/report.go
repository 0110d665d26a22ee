package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/kamorahul/workforce-ai-sub001/internal/timezone"
)

type Outcome string

const (
	// OutcomeRecorded means a new attendance record was written.
	OutcomeRecorded Outcome = "recorded"
	// OutcomeAlreadyCovered means an equivalent record already existed
	// inside the tolerance window, so nothing was written.
	OutcomeAlreadyCovered Outcome = "already_covered"
	// OutcomeSkipped means a precondition was missing (no ENTER event, no
	// check-in anchor, no EXIT event). Not an error; the pair simply has
	// nothing to reconcile.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the pair hit a real error and was abandoned for
	// this run. Discovery is recomputed fresh each run, so the next run
	// retries it.
	OutcomeFailed Outcome = "failed"
)

// PairOutcome is the result of one pass over one candidate pair. Failures
// carry their error instead of aborting the batch; the caller inspects the
// aggregate and decides whether anything warrants alerting.
type PairOutcome struct {
	Phase     string
	WorkerID  uuid.UUID
	ProjectID uuid.UUID
	Outcome   Outcome
	Reason    string
	Err       error
}

func (o PairOutcome) recorded() PairOutcome {
	o.Outcome = OutcomeRecorded
	return o
}

func (o PairOutcome) covered() PairOutcome {
	o.Outcome = OutcomeAlreadyCovered
	return o
}

func (o PairOutcome) skipped(reason string) PairOutcome {
	o.Outcome = OutcomeSkipped
	o.Reason = reason
	return o
}

func (o PairOutcome) failed(err error) PairOutcome {
	o.Outcome = OutcomeFailed
	o.Err = err
	return o
}

// Report is the full account of one reconciliation run: the boundary that
// bounded discovery, how many pairs were considered and what happened to
// each of them, check-ins and check-outs separately.
type Report struct {
	ReferenceDate time.Time
	Boundary      timezone.DayWindow
	Candidates    int
	CheckIns      []PairOutcome
	CheckOuts     []PairOutcome
}

// Summary counts outcomes of one pass.
type Summary struct {
	Recorded       int
	AlreadyCovered int
	Skipped        int
	Failed         int
}

func summarize(outcomes []PairOutcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Outcome {
		case OutcomeRecorded:
			s.Recorded++
		case OutcomeAlreadyCovered:
			s.AlreadyCovered++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeFailed:
			s.Failed++
		}
	}
	return s
}

func (r Report) CheckInSummary() Summary {
	return summarize(r.CheckIns)
}

func (r Report) CheckOutSummary() Summary {
	return summarize(r.CheckOuts)
}

// Failures returns every failed outcome from both passes, check-ins first.
func (r Report) Failures() []PairOutcome {
	var failed []PairOutcome
	for _, o := range r.CheckIns {
		if o.Outcome == OutcomeFailed {
			failed = append(failed, o)
		}
	}
	for _, o := range r.CheckOuts {
		if o.Outcome == OutcomeFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// TotalRecorded counts new records written across both passes.
func (r Report) TotalRecorded() int {
	return r.CheckInSummary().Recorded + r.CheckOutSummary().Recorded
}

// TotalFailed counts abandoned pairs across both passes.
func (r Report) TotalFailed() int {
	return r.CheckInSummary().Failed + r.CheckOutSummary().Failed
}
