package config

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// ReportingSeverity controls how a non-fatal site problem is surfaced.
type ReportingSeverity string

const (
	SeverityIgnore ReportingSeverity = "ignore"
	SeverityLog    ReportingSeverity = "log"
	SeverityWarn   ReportingSeverity = "warn"
	SeverityThrow  ReportingSeverity = "throw"
)

func (s ReportingSeverity) Valid() bool {
	switch s {
	case SeverityIgnore, SeverityLog, SeverityWarn, SeverityThrow:
		return true
	}
	return false
}

// Report logs msg at the level matching s. With SeverityThrow nothing is
// logged and an error carrying msg and args is returned instead.
func (s ReportingSeverity) Report(logger *slog.Logger, msg string, args ...any) error {
	if logger == nil {
		logger = slog.Default()
	}
	switch s {
	case SeverityIgnore:
		return nil
	case SeverityLog:
		logger.Info(msg, args...)
	case SeverityThrow:
		return errors.New(formatReport(msg, args))
	default:
		logger.Warn(msg, args...)
	}
	return nil
}

func formatReport(msg string, args []any) string {
	for i := 0; i+1 < len(args); i += 2 {
		msg += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	return msg
}
