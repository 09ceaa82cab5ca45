package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySessionID  = "session_id"
	KeyMode       = "mode"
	KeyPath       = "path"
	KeyInputPath  = "input_path"
	KeyOutputPath = "output_path"
	KeyExtension  = "extension"
	KeyCompiler   = "compiler"
	KeyTransform  = "transform"
	KeyLayout     = "layout"
	KeyFiles      = "files"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyRequestID  = "request_id"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func SessionID(id string) slog.Attr   { return slog.String(KeySessionID, id) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func InputPath(p string) slog.Attr    { return slog.String(KeyInputPath, p) }
func OutputPath(p string) slog.Attr   { return slog.String(KeyOutputPath, p) }
func Extension(ext string) slog.Attr  { return slog.String(KeyExtension, ext) }
func Compiler(name string) slog.Attr  { return slog.String(KeyCompiler, name) }
func Transform(name string) slog.Attr { return slog.String(KeyTransform, name) }
func Layout(key string) slog.Attr     { return slog.String(KeyLayout, key) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
