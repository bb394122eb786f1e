package goalter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/goalter/i18n"
)

// Issue codes reported for fail-soft fallbacks.
const (
	CodeInvalidType  = "invalid_type"
	CodeUnresolved   = "unresolved"
	CodeParseError   = "parse_error"
	CodeMissingKey   = "missing_key"
	CodeEmptyArgs    = "empty_args"
	CodeNotCallable  = "not_callable"
	CodeWrongService = "wrong_service"
	CodeUnsupported  = "unsupported"
	// CodeDuplicateKey is reported by DuplicateKeys, not by Alter.
	CodeDuplicateKey = "duplicate_key"
)

// Sentinel causes carried by InfraError.
var (
	ErrContainer = errors.New("goalter: container lookup failed")
	ErrStore     = errors.New("goalter: store lookup failed")
	ErrHydrate   = errors.New("goalter: hydration failed")
	ErrCall      = errors.New("goalter: callable failed")
)

// Issue records a data-level mismatch that degraded to "value unchanged".
type Issue struct {
	Path    string // JSON Pointer of the property (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Op      Op
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"name": "users"}) for i18n
	// and logging.
	Params map[string]string
}

// Issues is a collection of fallbacks that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unresolved at /owner (get)
		fmt.Fprintf(b, "%s at %s (%s)", it.Code, it.Path, it.Op)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// newIssue builds an issue whose message is resolved through i18n.
func newIssue(op Op, code string, params map[string]string) *Issue {
	return &Issue{Op: op, Code: code, Message: i18n.T(code, params), Params: params}
}

// InfraError is a configuration or capability failure that aborts Alter.
type InfraError struct {
	Path string
	Op   Op
	Err  error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("goalter: %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *InfraError) Unwrap() error { return e.Err }

// infra wraps cause with a sentinel so callers can errors.Is on both.
func infra(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	if errors.Is(cause, sentinel) {
		return cause
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}
