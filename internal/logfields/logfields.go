package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStep       = "step"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyImage      = "image"
	KeyCategory   = "category"
	KeyOutput     = "output"
	KeyProcessed  = "processed"
	KeySkipped    = "skipped"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyRequestID  = "request_id"
	KeyUserAgent  = "user_agent"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Step(name string) slog.Attr       { return slog.String(KeyStep, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Image(name string) slog.Attr      { return slog.String(KeyImage, name) }
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func Processed(n int) slog.Attr        { return slog.Int(KeyProcessed, n) }
func Skipped(n int) slog.Attr          { return slog.Int(KeySkipped, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
