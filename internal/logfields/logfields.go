package logfields

import "log/slog"

// Canonical log field names shared across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyFormat     = "format"
	KeyField      = "field"
	KeyTarget     = "target"
	KeyPolicy     = "policy"
	KeyCount      = "count"
	KeySchedule   = "schedule"
	KeyError      = "error"
)

func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Field(f string) slog.Attr        { return slog.String(KeyField, f) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func Policy(p string) slog.Attr       { return slog.String(KeyPolicy, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Schedule(s string) slog.Attr     { return slog.String(KeySchedule, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
