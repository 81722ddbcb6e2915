package rhperr

import "strings"

// Diagnostics aggregates every problem raised during a single analyzer pass
// (spec.md §4.3/§7: "The analyzer aggregates diagnostics and returns the
// count, so the orchestrator can refuse to proceed if any were raised").
//
// It is not safe for concurrent use; the analyzer drives it from a single
// goroutine, consistent with the single-threaded-cooperative model of §5.
type Diagnostics struct {
	entries []*Error
}

// NewDiagnostics returns an empty diagnostics collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Add records err, which must be non-nil.
func (d *Diagnostics) Add(err *Error) {
	if err == nil {
		return
	}
	d.entries = append(d.entries, err)
}

// Addf is a convenience wrapper that builds and records an *Error in one call.
func (d *Diagnostics) Addf(kind Kind, entity, format string, args ...interface{}) {
	d.Add(New(kind, format, args...).WithEntity(entity))
}

// Count returns the number of diagnostics recorded so far.
func (d *Diagnostics) Count() int {
	return len(d.entries)
}

// Entries returns the recorded diagnostics in the order they were added.
func (d *Diagnostics) Entries() []*Error {
	return d.entries
}

// Err returns nil if no diagnostics were recorded, or a single aggregated
// *Error of Kind EMPIncorrectInput summarizing every entry — the shape
// orchestrator.Process checks to decide whether to abort (spec.md §4.6 step 3).
func (d *Diagnostics) Err() *Error {
	if len(d.entries) == 0 {
		return nil
	}
	msgs := make([]string, len(d.entries))
	for i, e := range d.entries {
		msgs[i] = e.Error()
	}

	return New(EMPIncorrectInput, "%d diagnostic(s) raised: %s", len(d.entries), strings.Join(msgs, "; "))
}
