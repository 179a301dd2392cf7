package lark

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"openlark/pkg/logger"
	"openlark/pkg/serrors"
)

const headerHelpdeskAuth = "X-Lark-Helpdesk-Authorization"

// do performs one logical call: token lookup, limiter wait, the HTTP
// exchange with its transport-level retries, and envelope decoding.
func (c *Client) do(ctx context.Context,
	req *APIRequest,
	out any,
	o *requestOptions,
	tokenType AccessTokenType) (*RawResponse, error) {
	c.modifyLock.RLock()
	cfg := *c.config
	c.modifyLock.RUnlock()

	path, err := req.resolvePath()
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, req.HTTPMethod+" "+req.APIPath,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.HTTPMethod),
			attribute.String("lark.path", req.APIPath),
			attribute.String("lark.token_type", string(tokenType)),
		))
	defer span.End()

	token, err := c.accessToken(ctx, tokenType, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "access token")

		return nil, fmt.Errorf("could not get %s: %w", tokenType, err)
	}

	httpReq, err := newHTTPRequest(ctx, &cfg, req, path, token, o)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Get(ctx)
	}

	start := time.Now()
	raw, code, err := c.send(ctx, &cfg, httpReq, req, out)
	elapsed := time.Since(start)

	status := 0
	if raw != nil {
		status = raw.StatusCode
		span.SetAttributes(
			attribute.Int("http.status_code", raw.StatusCode),
			attribute.String("lark.log_id", raw.LogID))
	}
	c.metrics.RecordRequest(ctx, req.HTTPMethod, req.APIPath, status, code, elapsed)

	fields := []zap.Field{
		zap.String("method", req.HTTPMethod),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Int("code", code),
		zap.Duration("latency", elapsed),
	}
	if raw != nil {
		fields = append(fields, zap.String("log_id", raw.LogID))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		log.Debug("lark api call failed", append(fields, zap.Error(err))...)

		return raw, err
	}
	log.Debug("lark api call", fields...)

	return raw, nil
}

func newHTTPRequest(ctx context.Context,
	cfg *Config,
	req *APIRequest,
	path, token string,
	o *requestOptions) (*retryablehttp.Request, error) {
	// path is already escaped, so the URL is assembled as a string
	target := strings.TrimSuffix(cfg.BaseURL, "/") + path
	if len(req.QueryParams) > 0 {
		target += "?" + req.QueryParams.Encode()
	}

	var body any
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
		body = b
	}

	r, err := retryablehttp.NewRequestWithContext(ctx, req.HTTPMethod, target, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	for k, v := range cfg.Headers {
		r.Header[k] = append([]string(nil), v...)
	}
	for k, v := range o.header {
		r.Header[k] = append(r.Header[k], v...)
	}
	r.Header.Set("User-Agent", userAgent)
	if body != nil {
		r.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	requestID := o.requestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	r.Header.Set(headerRequestID, requestID)

	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	if o.needHelpdeskAuth {
		r.Header.Set(headerHelpdeskAuth,
			base64.StdEncoding.EncodeToString([]byte(cfg.HelpdeskID+":"+cfg.HelpdeskToken)))
	}

	return r, nil
}

// send runs the HTTP exchange and decodes the envelope. The returned code is
// the business code of the response, 0 when none was decoded.
func (c *Client) send(ctx context.Context,
	cfg *Config,
	r *retryablehttp.Request,
	req *APIRequest,
	out any) (*RawResponse, int, error) {
	if cfg.Limiter != nil {
		if err := cfg.Limiter.Wait(ctx); err != nil {
			return nil, 0, serrors.Wrap(serrors.ErrTimeout, err, "rate limiter wait failed")
		}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		r = r.WithContext(ctx)
	}

	retryWaitMax := cfg.RetryWaitMax
	client := &retryablehttp.Client{
		HTTPClient:   cfg.HTTPClient,
		RetryWaitMin: cfg.RetryWaitMin,
		RetryWaitMax: cfg.RetryWaitMax,
		RetryMax:     cfg.MaxRetries,
		Backoff: func(minWait, maxWait time.Duration, attemptNum int, resp *http.Response) time.Duration {
			return rateLimitBackoff(minWait, maxWait, retryWaitMax*4, attemptNum, resp)
		},
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
		Logger:       logger.Slog(ctx),
	}

	resp, err := client.Do(r)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, serrors.Wrap(serrors.ErrTimeout, err, "%s %s timed out", req.HTTPMethod, req.APIPath)
		}
		if errors.Is(err, context.Canceled) {
			return nil, 0, fmt.Errorf("%s %s canceled: %w", req.HTTPMethod, req.APIPath, err)
		}

		return nil, 0, serrors.Wrap(serrors.ErrUnavailable, err, "could not send %s %s", req.HTTPMethod, req.APIPath)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, serrors.Wrap(serrors.ErrUnavailable, err, "could not read response body")
	}

	raw := &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		LogID:      resp.Header.Get(headerLogID),
		RequestID:  r.Header.Get(headerRequestID),
		RateLimit:  ParseRateLimit(resp.Header, resp.StatusCode, time.Now()),
	}
	code, err := decodeResponse(raw, req, out)

	return raw, code, err
}

// rateLimitBackoff waits for the gateway's reset window on a 429, bounded by
// limit, and falls back to linear jitter otherwise.
func rateLimitBackoff(minWait, maxWait, limit time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		rl := ParseRateLimit(resp.Header, resp.StatusCode, time.Now())
		if !rl.IsZero() {
			wait := time.Until(rl.ResetAt)
			if wait > 0 {
				return min(wait, limit)
			}
		}
	}

	return retryablehttp.LinearJitterBackoff(minWait, maxWait, attemptNum, resp)
}

type errorDetail struct {
	LogID           string           `json:"log_id"`
	Troubleshooter  string           `json:"troubleshooter"`
	FieldViolations []FieldViolation `json:"field_violations"`
}

type envelope struct {
	Code   int
	Msg    string
	Data   jx.Raw
	Detail errorDetail
}

var errNotObject = errors.New("response body is not a json object")

// parseEnvelope reads code, msg and error, and keeps data as raw bytes for a
// later typed decode.
func parseEnvelope(body []byte) (envelope, error) {
	var env envelope

	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return env, errNotObject
	}

	err := d.Obj(func(d *jx.Decoder, key string) error {
		if d.Next() == jx.Null {
			return d.Null()
		}

		switch key {
		case "code":
			v, err := d.Int()
			env.Code = v

			return err
		case "msg":
			v, err := d.Str()
			env.Msg = v

			return err
		case "data":
			v, err := d.Raw()
			env.Data = v

			return err
		case "error":
			v, err := d.Raw()
			if err != nil {
				return err
			}
			// best effort, the detail only enriches the error message
			_ = json.Unmarshal(v, &env.Detail)

			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return env, fmt.Errorf("could not decode envelope: %w", err)
	}

	return env, nil
}

func decodeResponse(raw *RawResponse, req *APIRequest, out any) (int, error) {
	status := raw.StatusCode
	success := status >= 200 && status < 300

	env, err := parseEnvelope(raw.Body)
	if err != nil {
		if !success {
			return 0, serrors.With(KindForCode(0, status),
				"%s %s returned status %d: %s", req.HTTPMethod, req.APIPath, status, strings.TrimSpace(string(raw.Body)))
		}

		return 0, serrors.Wrap(serrors.ErrInternal, err, "could not decode %s %s response", req.HTTPMethod, req.APIPath)
	}

	if env.Code != 0 {
		apiErr := &APIError{
			Code:           env.Code,
			Msg:            env.Msg,
			LogID:          raw.LogID,
			StatusCode:     status,
			Troubleshooter: env.Detail.Troubleshooter,
			Violations:     env.Detail.FieldViolations,
		}
		if apiErr.LogID == "" {
			apiErr.LogID = env.Detail.LogID
		}

		return env.Code, serrors.Wrap(KindForCode(env.Code, status), apiErr, "%s %s failed", req.HTTPMethod, req.APIPath)
	}

	if !success {
		return 0, serrors.With(KindForCode(0, status),
			"%s %s returned status %d: %s", req.HTTPMethod, req.APIPath, status, strings.TrimSpace(string(raw.Body)))
	}

	if out == nil {
		return 0, nil
	}

	payload := []byte(env.Data)
	if req.DataAtRoot {
		payload = raw.Body
	}
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return 0, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return 0, serrors.Wrap(serrors.ErrInternal, err, "could not decode %s %s data", req.HTTPMethod, req.APIPath)
	}

	return 0, nil
}
