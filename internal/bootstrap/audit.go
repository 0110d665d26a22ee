package bootstrap

import "context"

// AuditLog is one operationally significant fact: a run summary, a shutdown,
// a manual trigger. Distinct from debug logging; these entries are meant to
// be grepped months later.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
