package contract

import "context"

// Trigger is one activatable capability. Implementations are constructed once
// at startup and held immutably; Matches and Action may be called concurrently.
type Trigger interface {
	Name() string
	Keywords() []string
	Priority() int
	Matches(query string) bool
	Action(ctx context.Context, query string) (Response, error)
}

// Analyzer runs the dashboard aggregation: CRM contacts + product document +
// completion call.
type Analyzer interface {
	DashboardData(ctx context.Context, contextStr, prompt string) (DashboardData, error)
}

// Verifier reconciles user claims against CRM deal records via the
// completion service.
type Verifier interface {
	Verify(ctx context.Context, contextStr, prompt string) (string, error)
}

// Completer is the single shape both completion backends are reduced to.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
