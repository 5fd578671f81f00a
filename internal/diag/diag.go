// Package diag collects the ordered, non-fatal warnings produced while a
// header is parsed and specialized. Fatal conditions are ordinary errors and
// never pass through here.
package diag

import (
	"fmt"
	"log/slog"
)

// Reporter accumulates warnings in emission order and mirrors them to slog.
// One Reporter serves one translation unit; it is not safe for concurrent use.
type Reporter struct {
	log      *slog.Logger
	warnings []string
}

func NewReporter() *Reporter {
	return &Reporter{log: slog.Default()}
}

// Warnf records a non-fatal warning. Processing continues: partial,
// best-effort bindings beat total failure for large headers.
func (r *Reporter) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, msg)
	r.log.Warn(msg)
}

// Tracef emits an informational trace without recording a warning. Used for
// unknown node kinds and verbose traversal output.
func (r *Reporter) Tracef(format string, args ...any) {
	r.log.Debug(fmt.Sprintf(format, args...))
}

// Warnings returns every warning recorded so far, in order.
func (r *Reporter) Warnings() []string {
	return r.warnings
}
