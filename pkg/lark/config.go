package lark

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"openlark/pkg/metrics"
)

const (
	// FeishuBaseURL is the Open Platform host for Feishu (mainland China) tenants.
	FeishuBaseURL = "https://open.feishu.cn"
	// LarkBaseURL is the Open Platform host for Lark (international) tenants.
	LarkBaseURL = "https://open.larksuite.com"
)

const (
	EnvAppID         = "LARK_APP_ID"
	EnvAppSecret     = "LARK_APP_SECRET"
	EnvAppType       = "LARK_APP_TYPE"
	EnvBaseURL       = "LARK_BASE_URL"
	EnvMaxRetries    = "LARK_MAX_RETRIES"
	EnvClientTimeout = "LARK_CLIENT_TIMEOUT"
	EnvRateLimit     = "LARK_RATE_LIMIT"
)

// AppType distinguishes apps built for a single tenant from apps distributed
// through the app marketplace. They obtain access tokens differently.
type AppType string

const (
	AppTypeSelfBuilt   AppType = "self_built"
	AppTypeMarketplace AppType = "marketplace"
)

// Config is used to configure the creation of the client.
type Config struct {
	// AppID and AppSecret identify the app on the Open Platform.
	AppID     string
	AppSecret string

	// AppType selects the token endpoints. Defaults to AppTypeSelfBuilt.
	AppType AppType

	// BaseURL is the Open Platform host, e.g. FeishuBaseURL or LarkBaseURL.
	BaseURL string

	// HTTPClient is the HTTP client to use. DefaultConfig starts from a pooled
	// cleanhttp client; modify that one rather than http.DefaultClient.
	HTTPClient *http.Client

	// Headers contains extra headers that will be added to any request.
	Headers http.Header

	// MaxRetries controls how many times a request is retried on transport
	// errors, 5xx and 429 responses. Set to 0 to disable retrying.
	MaxRetries int

	// RetryWaitMin and RetryWaitMax bound the linear jitter backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Timeout bounds a single call including its retries. Zero means no timeout.
	Timeout time.Duration

	// Limiter is waited on before every call. Nil means no client-side limit.
	Limiter *rate.Limiter

	// DisableTokenCache makes every call fetch a fresh app/tenant token.
	DisableTokenCache bool

	// TokenCache stores app/tenant tokens and app tickets. Defaults to an
	// in-process MemoryCache.
	TokenCache TokenCache

	// HelpdeskID and HelpdeskToken produce the helpdesk authorization header
	// for requests made WithNeedHelpdeskAuth.
	HelpdeskID    string
	HelpdeskToken string

	// Logger overrides the context logger for request logs.
	Logger *zap.Logger

	// Metrics overrides the instruments bound to the global meter provider.
	Metrics *metrics.Instruments

	// Error is set when DefaultConfig could not read the environment.
	Error error
}

func defaultConfig() *Config {
	httpClient := cleanhttp.DefaultPooledClient()
	if transport, ok := httpClient.Transport.(*http.Transport); ok {
		transport.TLSHandshakeTimeout = 10 * time.Second
		transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &Config{
		AppType:      AppTypeSelfBuilt,
		BaseURL:      FeishuBaseURL,
		HTTPClient:   httpClient,
		Headers:      make(http.Header),
		MaxRetries:   2,
		RetryWaitMin: time.Second,
		RetryWaitMax: 1500 * time.Millisecond,
		Timeout:      60 * time.Second,
	}
}

// DefaultConfig returns a default configuration for the client. It is safe to
// modify the return value. Values from LARK_* environment variables are applied
// on top of the defaults; a failure to parse them is reported through Error.
func DefaultConfig() *Config {
	config := defaultConfig()
	if err := config.ReadEnvironment(); err != nil {
		config.Error = err
	}

	return config
}

// ReadEnvironment reads configuration information from the environment. If
// there is an error, no configuration value is updated.
func (c *Config) ReadEnvironment() error {
	next := *c

	if v := os.Getenv(EnvAppID); v != "" {
		next.AppID = v
	}
	if v := os.Getenv(EnvAppSecret); v != "" {
		next.AppSecret = v
	}
	if v := os.Getenv(EnvAppType); v != "" {
		switch AppType(v) {
		case AppTypeSelfBuilt, AppTypeMarketplace:
			next.AppType = AppType(v)
		default:
			return fmt.Errorf("could not parse %s: unknown app type %q", EnvAppType, v)
		}
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		next.BaseURL = strings.TrimSuffix(v, "/")
	}
	if v := os.Getenv(EnvMaxRetries); v != "" {
		maxRetries, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("could not parse %s: %w", EnvMaxRetries, err)
		}
		next.MaxRetries = int(maxRetries)
	}
	if v := os.Getenv(EnvClientTimeout); v != "" {
		timeout, err := parseDurationSecond(v)
		if err != nil {
			return fmt.Errorf("could not parse %s: %w", EnvClientTimeout, err)
		}
		next.Timeout = timeout
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		limit, burst, err := parseRateLimit(v)
		if err != nil {
			return err
		}
		next.Limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}

	*c = next

	return nil
}

// parseDurationSecond accepts Go durations ("90s", "2m") and bare seconds ("90").
func parseDurationSecond(v string) (time.Duration, error) {
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", v, err)
	}

	return d, nil
}

// parseRateLimit parses "rate" or "rate:burst". Without an explicit burst the
// burst equals the integer part of the rate, and at least 1.
func parseRateLimit(val string) (float64, int, error) {
	var limit float64
	var burst int
	if _, err := fmt.Sscanf(val, "%f:%d", &limit, &burst); err == nil {
		return limit, burst, nil
	}

	limit, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s was provided but incorrectly formatted", EnvRateLimit)
	}
	burst = max(int(limit), 1)

	return limit, burst, nil
}
