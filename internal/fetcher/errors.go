package fetcher

import (
	"errors"
	"fmt"

	"github.com/rickgao/price-tracker/internal/api"
)

// Classification sentinels. Match with errors.Is.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrRateLimited         = errors.New("rate limited")
	ErrMalformedResponse   = errors.New("malformed response")
)

// Kind classifies a fetch failure.
type Kind int

const (
	KindUpstreamUnavailable Kind = iota + 1
	KindRateLimited
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindRateLimited:
		return "rate_limited"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is a classified fetch failure for one asset.
type Error struct {
	Kind    Kind
	AssetID string
	Op      string // "price", "pause" or "history"
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s %s: %s: %v", e.AssetID, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the classification sentinels. RateLimited also matches
// ErrUpstreamUnavailable.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUpstreamUnavailable:
		return e.Kind == KindUpstreamUnavailable || e.Kind == KindRateLimited
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrMalformedResponse:
		return e.Kind == KindMalformedResponse
	}
	return false
}

// IsRateLimited reports whether err is an upstream rate-limit signal.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// KindOf returns the classification of err, or 0 if err is not a fetch error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// classify maps an api error onto the fetch taxonomy by status code, not text.
func classify(err error) Kind {
	switch {
	case api.IsRateLimited(err):
		return KindRateLimited
	case errors.Is(err, api.ErrMalformedResponse):
		return KindMalformedResponse
	default:
		return KindUpstreamUnavailable
	}
}
