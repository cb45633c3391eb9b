package llm

import (
	"errors"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

// FailureKind classifies why plan generation failed. Kinds are mutually
// exclusive; downstream code branches on the kind, never on raw error text.
type FailureKind string

const (
	// KindConfigMissing means a required endpoint or credential is absent.
	// Operator-fixable.
	KindConfigMissing FailureKind = "config_missing"
	// KindAuthFailed means the provider rejected the credential.
	// Operator-fixable.
	KindAuthFailed FailureKind = "auth_failed"
	// KindRateLimited means the provider throttled the call. Retryable later.
	KindRateLimited FailureKind = "rate_limited"
	// KindInsufficientQuota means the account is out of credits. Retryable
	// after topping up.
	KindInsufficientQuota FailureKind = "insufficient_quota"
	// KindInvalidResponse means the model answered but the output failed the
	// plan document contract.
	KindInvalidResponse FailureKind = "invalid_response"
	// KindUnknown is the fallback for unrecognized transport failures.
	KindUnknown FailureKind = "unknown"
)

// GenerationError is the single error type returned by Generator.Generate.
type GenerationError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return "plan generation failed (" + string(e.Kind) + "): " + e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// FailureKindOf extracts the failure kind from an error chain, or KindUnknown.
func FailureKindOf(err error) FailureKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return KindUnknown
}

// classify maps a transport error onto the taxonomy using the provider's
// status code when available, then known message substrings, falling back to
// KindUnknown. The original error stays wrapped for diagnostics.
func classify(err error) *GenerationError {
	ge := &GenerationError{Kind: KindUnknown, Message: err.Error(), Err: err}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			ge.Kind = KindAuthFailed
			return ge
		case http.StatusPaymentRequired:
			ge.Kind = KindInsufficientQuota
			return ge
		case http.StatusTooManyRequests:
			ge.Kind = KindRateLimited
			return ge
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "user not found"),
		strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "unauthorized"):
		ge.Kind = KindAuthFailed
	case strings.Contains(msg, "rate limit"):
		ge.Kind = KindRateLimited
	case strings.Contains(msg, "insufficient credits"),
		strings.Contains(msg, "insufficient quota"),
		strings.Contains(msg, "quota exceeded"):
		ge.Kind = KindInsufficientQuota
	}
	return ge
}
