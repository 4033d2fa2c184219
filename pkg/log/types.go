package log

// ZapConfig configures the zap-backed Logger.
type ZapConfig struct {
	Level        string // debug, info, warn, error
	Mode         string // "production" or anything else for development
	Encoding     string // "json" or "console"
	ColorEnabled bool
}

// Context keys that are attached to every log line when present.
type ctxKey string

const (
	// SessionIDKey carries the conversation session id.
	SessionIDKey ctxKey = "session_id"
	// RequestIDKey carries the HTTP request id.
	RequestIDKey ctxKey = "request_id"
)

const (
	ModeProduction = "production"
	EncodingJSON   = "json"
)
