// Package v1handler implements the generated v1 deliveries API: enqueueing
// messages into the outbox and inspecting, canceling or deleting deliveries.
package v1handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"openlark/internal/api/specs/v1specs"
	"openlark/internal/notifier"
	"openlark/pkg/logger"
	"openlark/pkg/serrors"
)

// Deps groups the services used by the handlers.
type Deps struct {
	Notifier notifier.Notifier
}

type Handler struct {
	deps Deps
}

// Ensure Handler implements v1specs.Handler.
var _ v1specs.Handler = (*Handler)(nil)

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

var kindMessage = map[serrors.Kind]string{ //nolint: gochecknoglobals
	serrors.ErrNotFound:     "resource not found",
	serrors.ErrUnauthorized: "unauthorized",
	serrors.ErrForbidden:    "forbidden",
	serrors.ErrBadRequest:   "bad request",
	serrors.ErrValidation:   "invalid request",
	serrors.ErrConflict:     "conflict",
	serrors.ErrTimeout:      "timeout",
	serrors.ErrUnavailable:  "service unavailable",
	serrors.ErrRateLimited:  "rate limited",
	serrors.ErrInternal:     "internal error",
}

// statusKind is implemented by the errors of the generated server, e.g. a
// rejected security check or a malformed parameter.
type statusKind interface {
	Code() int
}

func kindForStatus(status int) serrors.Kind {
	switch status {
	case http.StatusBadRequest:
		return serrors.ErrBadRequest
	case http.StatusUnauthorized:
		return serrors.ErrUnauthorized
	case http.StatusForbidden:
		return serrors.ErrForbidden
	case http.StatusNotFound:
		return serrors.ErrNotFound
	}
	if status >= 400 && status < 500 {
		return serrors.ErrBadRequest
	}

	return serrors.ErrInternal
}

// NewError maps err to a response. Internal errors are logged and their
// message is hidden from the client.
func (h Handler) NewError(ctx context.Context, err error) *v1specs.ErrorStatusCode {
	return newError(ctx, err)
}

func newError(ctx context.Context, err error) *v1specs.ErrorStatusCode {
	kind := serrors.KindOf(err)
	status := serrors.HTTPStatus(err)
	var coded statusKind
	if kind == nil && errors.As(err, &coded) {
		status = coded.Code()
		if kind = kindForStatus(status); kind == serrors.ErrInternal {
			status = http.StatusInternalServerError
		}
	}

	if status == http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))

		return &v1specs.ErrorStatusCode{
			StatusCode: http.StatusInternalServerError,
			Response: v1specs.Error{
				Code:    serrors.ErrInternal.Error(),
				Message: kindMessage[serrors.ErrInternal],
			},
		}
	}

	msg := kindMessage[kind]
	var se *serrors.Error
	switch {
	case kind == serrors.ErrBadRequest || kind == serrors.ErrValidation:
		// the cause names the offending field
		msg = err.Error()
		if errors.As(err, &se) {
			msg = se.Error()
		}
	case !errors.As(err, &se):
	case se.Message() != "":
		msg = se.Message()
	}

	return &v1specs.ErrorStatusCode{
		StatusCode: status,
		Response:   v1specs.Error{Code: kind.Error(), Message: msg},
	}
}

// ErrorHandler answers the requests the generated server rejects before they
// reach a handler, using the same body as NewError.
func ErrorHandler(ctx context.Context, w http.ResponseWriter, _ *http.Request, err error) {
	res := newError(ctx, err)

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Str(res.Response.Code)
	e.FieldStart("message")
	e.Str(res.Response.Message)
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(e.Bytes())
}
