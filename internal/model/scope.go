package model

// Scope identifies who a request is processed for. The system is single-user,
// so the scope only separates conversation sessions.
type Scope struct {
	SessionID string
	Channel   string // "http", "cli"
}

