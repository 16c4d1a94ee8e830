package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile       = "file"
	KeyPath       = "path"
	KeyTemplate   = "template"
	KeyCollection = "collection"
	KeyCount      = "count"
	KeyOutput     = "output"
	KeyDurationMS = "duration_ms"
	KeyEvent      = "event"
	KeyError      = "error"
	KeyBuildID    = "build_id"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Collection(name string) slog.Attr { return slog.String(KeyCollection, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Output(dir string) slog.Attr      { return slog.String(KeyOutput, dir) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Event(op string) slog.Attr        { return slog.String(KeyEvent, op) }
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
