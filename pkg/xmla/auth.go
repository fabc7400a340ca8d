package xmla

import "fmt"

// AdminQuery is the raw URL query that grants access when authentication
// is enabled.
const AdminQuery = "admin"

// Allow reports whether a request with the given raw URL query may proceed.
// The query must be exactly "admin"; "?admin=1" or "?Admin" are denied.
func Allow(enabled bool, rawQuery string) bool {
	return !enabled || rawQuery == AdminQuery
}

// Gate decides which operations require authentication.
type Gate struct {
	// Discover enables the check for Discover calls.
	Discover bool
	// Execute enables the check for Execute calls.
	Execute bool
}

// Check returns ErrInvalidCredentials when operation is gated and the
// request query doesn't grant access.
func (g Gate) Check(operation, rawQuery string) error {
	enabled := false
	switch operation {
	case OperationDiscover:
		enabled = g.Discover
	case OperationExecute:
		enabled = g.Execute
	}
	if Allow(enabled, rawQuery) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidCredentials, operation)
}
