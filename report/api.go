package report

import (
	"fmt"
	"sort"
)

// Enumeration of diagnostic severities.
const (
	SevError = iota
	SevWarning
)

// Diagnostic is a single user-facing message produced by a compilation stage.
type Diagnostic struct {
	Kind     int
	Severity int
	Message  string
	Span     *TextSpan
}

// Line returns the one-indexed line of the diagnostic or 0 if it has no
// position.
func (d *Diagnostic) Line() int {
	if d.Span == nil {
		return 0
	}

	return d.Span.StartLine + 1
}

// Column returns the one-indexed column of the diagnostic or 0 if it has no
// position.
func (d *Diagnostic) Column() int {
	if d.Span == nil {
		return 0
	}

	return d.Span.StartCol + 1
}

func (d *Diagnostic) String() string {
	label := KindName(d.Kind)
	if d.Severity == SevWarning {
		label = "warning"
	}

	if d.Span == nil {
		return fmt.Sprintf("%s: %s", label, d.Message)
	}

	return fmt.Sprintf("%d:%d: %s: %s", d.Line(), d.Column(), label, d.Message)
}

// -----------------------------------------------------------------------------

// Diagnostics is an ordered list of diagnostics.  Diagnostics are kept in the
// order they are discovered.
type Diagnostics struct {
	items  []*Diagnostic
	errors int
}

// Add records an error diagnostic.
func (ds *Diagnostics) Add(kind int, span *TextSpan, msg string, args ...interface{}) {
	ds.items = append(ds.items, &Diagnostic{
		Kind:     kind,
		Severity: SevError,
		Message:  fmt.Sprintf(msg, args...),
		Span:     span,
	})
	ds.errors++
}

// AddError records an error diagnostic from a compile error.
func (ds *Diagnostics) AddError(cerr *CompileError) {
	ds.items = append(ds.items, &Diagnostic{
		Kind:     cerr.Kind,
		Severity: SevError,
		Message:  cerr.Message,
		Span:     cerr.Span,
	})
	ds.errors++
}

// Warn records a warning diagnostic.
func (ds *Diagnostics) Warn(kind int, span *TextSpan, msg string, args ...interface{}) {
	ds.items = append(ds.items, &Diagnostic{
		Kind:     kind,
		Severity: SevWarning,
		Message:  fmt.Sprintf(msg, args...),
		Span:     span,
	})
}

// Append adds all the diagnostics in other to ds.
func (ds *Diagnostics) Append(other *Diagnostics) {
	ds.items = append(ds.items, other.items...)
	ds.errors += other.errors
}

// AnyErrors returns whether or not any error diagnostics were recorded.
func (ds *Diagnostics) AnyErrors() bool {
	return ds.errors > 0
}

// ErrorCount returns the number of error diagnostics.
func (ds *Diagnostics) ErrorCount() int {
	return ds.errors
}

// Len returns the number of diagnostics.
func (ds *Diagnostics) Len() int {
	return len(ds.items)
}

// Items returns the diagnostics in discovery order.
func (ds *Diagnostics) Items() []*Diagnostic {
	return ds.items
}

// Sorted returns a copy of the diagnostics ordered by source position.
// Diagnostics without a position come first.
func (ds *Diagnostics) Sorted() []*Diagnostic {
	sorted := make([]*Diagnostic, len(ds.items))
	copy(sorted, ds.items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Span, sorted[j].Span
		if a == nil || b == nil {
			return a == nil && b != nil
		}

		return a.Before(b)
	})

	return sorted
}

// OfKind returns all the diagnostics of the given kind.
func (ds *Diagnostics) OfKind(kind int) []*Diagnostic {
	var matching []*Diagnostic
	for _, d := range ds.items {
		if d.Kind == kind && d.Severity == SevError {
			matching = append(matching, d)
		}
	}

	return matching
}
