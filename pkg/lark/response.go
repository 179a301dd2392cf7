package lark

import (
	"net/http"
	"strconv"
	"time"
)

const (
	headerLogID              = "X-Tt-Logid"
	headerRequestID          = "X-Request-Id"
	headerRateLimitLimit     = "X-Ogw-Ratelimit-Limit"
	headerRateLimitRemaining = "X-Ogw-Ratelimit-Remaining"
	headerRateLimitReset     = "X-Ogw-Ratelimit-Reset"
)

// RawResponse carries the transport-level details of a completed call.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	LogID      string
	RequestID  string
	RateLimit  RateLimit
}

// Response is a decoded envelope together with its raw response.
type Response[T any] struct {
	*RawResponse
	Data T
}

// RateLimit is the gateway's view of the caller's budget for an endpoint.
type RateLimit struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// IsZero reports whether the response carried no rate limit headers.
func (r RateLimit) IsZero() bool {
	return r.ResetAt.IsZero()
}

// ParseRateLimit reads the x-ogw-ratelimit-* headers. The reset header is the
// number of seconds until the window resets. When the remaining header is
// absent the budget is assumed exhausted on a 429 and full otherwise.
func ParseRateLimit(h http.Header, statusCode int, now time.Time) RateLimit {
	limit, err := strconv.Atoi(h.Get(headerRateLimitLimit))
	if err != nil {
		return RateLimit{}
	}
	reset, err := strconv.Atoi(h.Get(headerRateLimitReset))
	if err != nil {
		return RateLimit{}
	}

	rl := RateLimit{
		Limit:   limit,
		ResetAt: now.Add(time.Duration(reset) * time.Second),
	}
	if remaining, err := strconv.Atoi(h.Get(headerRateLimitRemaining)); err == nil {
		rl.Remaining = remaining
	} else if statusCode == http.StatusTooManyRequests {
		rl.Remaining = 0
	} else {
		rl.Remaining = limit
	}

	return rl
}
