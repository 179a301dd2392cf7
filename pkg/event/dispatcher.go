// Package event receives Open Platform event callbacks. A Dispatcher decrypts
// the body, answers the URL verification challenge, checks the signature and
// the verification token, then routes the event to the handler registered for
// its type.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"openlark/pkg/logger"
	"openlark/pkg/metrics"
	"openlark/pkg/serrors"
)

const maxBodySize = 1 << 20

// Event outcomes recorded in metrics.
const (
	outcomeHandled   = "handled"
	outcomeUnhandled = "unhandled"
	outcomeFailed    = "failed"
	outcomeRejected  = "rejected"
	outcomeChallenge = "challenge"
)

// TicketStore keeps the app ticket pushed to marketplace apps.
// *lark.TokenManager implements it.
type TicketStore interface {
	SetAppTicket(ctx context.Context, ticket string) error
}

type handlerFunc func(ctx context.Context, body []byte) error

type Dispatcher struct {
	verificationToken string
	encryptKey        string
	handlers          map[string]handlerFunc
	tickets           TicketStore
	appTicketFn       func(context.Context, *AppTicketEvent) error
	metrics           *metrics.Instruments
}

type Option func(*Dispatcher)

// WithTicketStore stores every app_ticket event, whether or not OnAppTicket
// is registered.
func WithTicketStore(store TicketStore) Option {
	return func(d *Dispatcher) {
		d.tickets = store
	}
}

func WithMetrics(m *metrics.Instruments) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher creates a dispatcher. An empty verificationToken disables the
// token check and an empty encryptKey disables decryption and signature checks.
func NewDispatcher(verificationToken, encryptKey string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		verificationToken: verificationToken,
		encryptKey:        encryptKey,
		handlers:          make(map[string]handlerFunc),
		metrics:           metrics.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Dispatcher) register(eventType string, h handlerFunc) {
	if _, ok := d.handlers[eventType]; ok {
		panic(fmt.Sprintf("event: handler for %q already registered", eventType))
	}
	d.handlers[eventType] = h
}

func typed[T any](fn func(context.Context, *T) error) handlerFunc {
	return func(ctx context.Context, body []byte) error {
		var ev T
		if err := json.Unmarshal(body, &ev); err != nil {
			return serrors.Wrap(serrors.ErrBadRequest, err, "could not decode event")
		}

		return fn(ctx, &ev)
	}
}

func (d *Dispatcher) OnP2MessageReceiveV1(fn func(context.Context, *P2MessageReceiveV1) error) *Dispatcher {
	d.register(EventTypeP2MessageReceiveV1, typed(fn))

	return d
}

func (d *Dispatcher) OnP2MessageReactionCreatedV1(
	fn func(context.Context, *P2MessageReactionCreatedV1) error) *Dispatcher {
	d.register(EventTypeP2MessageReactionCreatedV1, typed(fn))

	return d
}

// OnAppTicket registers fn for app_ticket events. It runs after the ticket
// was saved to the TicketStore, if any.
func (d *Dispatcher) OnAppTicket(fn func(context.Context, *AppTicketEvent) error) *Dispatcher {
	if d.appTicketFn != nil {
		panic(fmt.Sprintf("event: handler for %q already registered", EventTypeAppTicket))
	}
	d.appTicketFn = fn

	return d
}

// OnCustomizedEvent registers fn for an event type without a typed registration.
func (d *Dispatcher) OnCustomizedEvent(eventType string, fn func(context.Context, *CustomizedEvent) error) *Dispatcher {
	d.register(eventType, func(ctx context.Context, body []byte) error {
		ev := CustomizedEvent{EventType: eventType, Raw: body}
		if err := json.Unmarshal(body, &ev); err != nil {
			return serrors.Wrap(serrors.ErrBadRequest, err, "could not decode event")
		}

		return fn(ctx, &ev)
	})

	return d
}

func (d *Dispatcher) handleAppTicket(ctx context.Context, body []byte) error {
	var ev AppTicketEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "could not decode event")
	}
	if ev.Event == nil || ev.Event.AppTicket == "" {
		return serrors.With(serrors.ErrBadRequest, "app_ticket event without ticket")
	}

	if d.tickets != nil {
		if err := d.tickets.SetAppTicket(ctx, ev.Event.AppTicket); err != nil {
			return err
		}
	}
	if d.appTicketFn != nil {
		return d.appTicketFn(ctx, &ev)
	}

	return nil
}

func (d *Dispatcher) handler(eventType string) (handlerFunc, bool) {
	if eventType == EventTypeAppTicket {
		return d.handleAppTicket, d.tickets != nil || d.appTicketFn != nil
	}
	h, ok := d.handlers[eventType]

	return h, ok
}

// Handle processes one callback. The returned EventResp is always set; err
// is non-nil when the callback was rejected or its handler failed.
func (d *Dispatcher) Handle(ctx context.Context, header http.Header, body []byte) (*EventResp, error) {
	env, err := peekEnvelope(body)
	if err != nil {
		return d.reject(ctx, "", err)
	}

	plain := body
	if env.Encrypt != "" {
		if d.encryptKey == "" {
			return d.reject(ctx, "", serrors.With(serrors.ErrBadRequest, "received encrypted event without an encrypt key"))
		}
		if plain, err = Decrypt(env.Encrypt, d.encryptKey); err != nil {
			return d.reject(ctx, "", err)
		}
		if env, err = peekEnvelope(plain); err != nil {
			return d.reject(ctx, "", err)
		}
	}

	if env.Type == typeURLVerification {
		if err := d.checkToken(env.Token); err != nil {
			return d.reject(ctx, typeURLVerification, err)
		}
		d.metrics.RecordEvent(ctx, typeURLVerification, outcomeChallenge)
		b, _ := json.Marshal(map[string]string{"challenge": env.Challenge})

		return jsonResp(http.StatusOK, b), nil
	}

	eventType := env.eventType()
	if d.encryptKey != "" {
		if err := verifySignature(header, d.encryptKey, body); err != nil {
			return d.reject(ctx, eventType, err)
		}
	}
	if err := d.checkToken(env.verificationToken()); err != nil {
		return d.reject(ctx, eventType, err)
	}

	ctx = logger.WithFields(ctx, zap.String("event_type", eventType), zap.String("event_id", env.id()))

	h, ok := d.handler(eventType)
	if !ok {
		logger.Debug(ctx, "no handler for event")
		d.metrics.RecordEvent(ctx, eventType, outcomeUnhandled)

		return msgResp(http.StatusNotFound, fmt.Sprintf("event type %s has no handler", eventType)), nil
	}

	if err := h(ctx, plain); err != nil {
		logger.Error(ctx, "event handler failed", zap.Error(err))
		d.metrics.RecordEvent(ctx, eventType, outcomeFailed)

		return msgResp(serrors.HTTPStatus(err), err.Error()), err
	}

	logger.Debug(ctx, "event handled")
	d.metrics.RecordEvent(ctx, eventType, outcomeHandled)

	return msgResp(http.StatusOK, "success"), nil
}

func (d *Dispatcher) checkToken(token string) error {
	if d.verificationToken != "" && token != d.verificationToken {
		return serrors.With(serrors.ErrUnauthorized, "verification token mismatch")
	}

	return nil
}

func (d *Dispatcher) reject(ctx context.Context, eventType string, err error) (*EventResp, error) {
	logger.Warn(ctx, "event rejected", zap.String("event_type", eventType), zap.Error(err))
	d.metrics.RecordEvent(ctx, eventType, outcomeRejected)

	return msgResp(serrors.HTTPStatus(err), err.Error()), err
}

// ServeHTTP serves the callback endpoint.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "could not read body", http.StatusRequestEntityTooLarge)

		return
	}

	resp, _ := d.Handle(r.Context(), r.Header, body)
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

func jsonResp(status int, body []byte) *EventResp {
	h := http.Header{}
	h.Set("Content-Type", "application/json; charset=utf-8")

	return &EventResp{StatusCode: status, Header: h, Body: body}
}

func msgResp(status int, msg string) *EventResp {
	b, _ := json.Marshal(map[string]string{"msg": msg})

	return jsonResp(status, b)
}
