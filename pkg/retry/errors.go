// Package retry classifies failures as retryable or permanent and computes
// exponential backoff delays for the retryable ones.
//
// Errors should be tagged at the throwing site with a Kind so classification
// does not depend on message wording. Untagged errors fall back to substring
// heuristics over the error message, defaulting to retryable: the policy is
// optimistic, favoring availability over fast-fail.
package retry

import (
	"strings"

	"github.com/go-faster/errors"
)

// Kind categorizes a failure for retry decisions.
type Kind int

const (
	// KindUnknown is the zero value for errors nobody classified.
	KindUnknown Kind = iota
	// KindValidation marks client-side or data defects. Retrying cannot help.
	KindValidation
	// KindAuth marks unauthorized/forbidden failures. The fix is a credential
	// or permission change, not a retry.
	KindAuth
	// KindNotFound marks missing-resource failures (400/404 class).
	KindNotFound
	// KindTransient marks infrastructure faults (network, timeout, 5xx).
	KindTransient
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Retryable reports whether failures of this kind are worth retrying.
// KindUnknown is retryable by default.
func (k Kind) Retryable() bool {
	switch k {
	case KindValidation, KindAuth, KindNotFound:
		return false
	default:
		return true
	}
}

// kindError attaches a Kind to an underlying error.
type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// Mark tags err with the given kind. A nil err returns nil.
func Mark(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// KindOf extracts the Kind tag from err, or KindUnknown if untagged.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}

// ShouldRetry decides whether a failed event operation is worth retrying.
// Tagged errors are classified by their Kind. For untagged errors the message
// is inspected with case-sensitive substring matching, first match wins:
//
//  1. "validation" or "invalid": not retryable.
//  2. "unauthorized" or "forbidden": not retryable.
//  3. "400" or "404": not retryable.
//  4. "network", "timeout", or 5xx status text: retryable.
//  5. No match: retryable.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if kind := KindOf(err); kind != KindUnknown {
		return kind.Retryable()
	}

	msg := err.Error()
	switch {
	case containsAny(msg, "validation", "invalid"):
		return false
	case containsAny(msg, "unauthorized", "forbidden"):
		return false
	case containsAny(msg, "400", "404"):
		return false
	case containsAny(msg, "network", "timeout", "500", "502", "503", "504"):
		return true
	default:
		return true
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
