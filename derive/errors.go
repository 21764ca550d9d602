package derive

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	// KindUnsupported rejects a type shape that has no classification rule.
	KindUnsupported Kind = "Unsupported"
	// KindRoot rejects a root type whose classification is not a Digest.
	KindRoot Kind = "Root"
	// KindVariant covers sum-type variant lists, at plan time and at
	// classification time.
	KindVariant Kind = "Variant"
	// KindCycle rejects a value that refers to itself.
	KindCycle Kind = "Cycle"
)

// Rule identifiers. They name the violated rule and are stable.
const (
	RuleUnsupportedKind  = "DERIVE-KIND-001"
	RuleOpenInterface    = "DERIVE-IFACE-001"
	RuleClassifyMethod   = "DERIVE-METHOD-001"
	RuleRootNotComposite = "DERIVE-ROOT-001"
	RuleVariantsNotIface = "DERIVE-VARIANT-001"
	RuleVariantNil       = "DERIVE-VARIANT-002"
	RuleVariantDuplicate = "DERIVE-VARIANT-003"
	RuleVariantsTwice    = "DERIVE-VARIANT-004"
	RuleVariantNotListed = "DERIVE-VARIANT-005"
	RuleCycle            = "DERIVE-CYCLE-001"
)

// Error is the package's structured error type.
//
// Path locates the offending type inside the root, e.g. "Order.Items[].Tags".
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" {
		return "derive: " + e.Message
	}
	return "derive: " + e.Path + ": " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, path, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Path: path, Message: msg}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
