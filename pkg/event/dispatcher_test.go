package event_test

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"openlark/pkg/event"
	"openlark/pkg/lark/larktest"
	"openlark/pkg/metrics"
	"openlark/pkg/serrors"
)

const (
	verificationToken = "v-token"
	encryptKey        = "e-key"
)

const messageEvent = `{
	"schema":"2.0",
	"header":{"event_id":"ev1","event_type":"im.message.receive_v1","create_time":"1700000000000",
		"token":"v-token","app_id":"cli_test","tenant_key":"tk"},
	"event":{
		"sender":{"sender_id":{"open_id":"ou_1"},"sender_type":"user","tenant_key":"tk"},
		"message":{"message_id":"om_1","chat_id":"oc_1","chat_type":"p2p","message_type":"text",
			"content":"{\"text\":\"hello\"}"}
	}
}`

func encrypt(t *testing.T, plain, key string) string {
	t.Helper()

	k := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(k[:])
	require.NoError(t, err)

	n := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append([]byte(plain), bytes.Repeat([]byte{byte(n)}, n)...)

	iv := []byte("0123456789abcdef")
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return base64.StdEncoding.EncodeToString(append(iv, out...))
}

func signed(body []byte) http.Header {
	h := http.Header{}
	h.Set(event.HeaderRequestTimestamp, "1700000000")
	h.Set(event.HeaderRequestNonce, "nonce")
	h.Set(event.HeaderSignature, event.Signature("1700000000", "nonce", encryptKey, body))

	return h
}

func TestDispatcher_URLVerification(t *testing.T) {
	d := event.NewDispatcher(verificationToken, "")

	resp, err := d.Handle(context.Background(), http.Header{},
		[]byte(`{"challenge":"ch-1","token":"v-token","type":"url_verification"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"challenge":"ch-1"}`, string(resp.Body))

	resp, err = d.Handle(context.Background(), http.Header{},
		[]byte(`{"challenge":"ch-1","token":"wrong","type":"url_verification"}`))
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDispatcher_EncryptedURLVerification(t *testing.T) {
	d := event.NewDispatcher(verificationToken, encryptKey)
	plain := `{"challenge":"ch-2","token":"v-token","type":"url_verification"}`
	body := []byte(`{"encrypt":"` + encrypt(t, plain, encryptKey) + `"}`)

	// the challenge is not signed
	resp, err := d.Handle(context.Background(), http.Header{}, body)
	require.NoError(t, err)
	require.JSONEq(t, `{"challenge":"ch-2"}`, string(resp.Body))
}

func TestDispatcher_MessageReceive(t *testing.T) {
	var got *event.P2MessageReceiveV1
	d := event.NewDispatcher(verificationToken, "").
		OnP2MessageReceiveV1(func(_ context.Context, ev *event.P2MessageReceiveV1) error {
			got = ev

			return nil
		})

	resp, err := d.Handle(context.Background(), http.Header{}, []byte(messageEvent))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"msg":"success"}`, string(resp.Body))

	require.NotNil(t, got)
	require.Equal(t, "ev1", got.Header.EventID)
	require.Equal(t, "ou_1", got.Event.Sender.SenderID.OpenID)
	text, err := got.Event.Message.Text()
	require.NoError(t, err)
	require.Equal(t, "hello", text)
}

func TestDispatcher_Encrypted(t *testing.T) {
	calls := 0
	d := event.NewDispatcher(verificationToken, encryptKey).
		OnP2MessageReceiveV1(func(context.Context, *event.P2MessageReceiveV1) error {
			calls++

			return nil
		})
	body := []byte(`{"encrypt":"` + encrypt(t, messageEvent, encryptKey) + `"}`)

	resp, err := d.Handle(context.Background(), signed(body), body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, calls)

	bad := signed(body)
	bad.Set(event.HeaderSignature, strings.Repeat("0", 64))
	resp, err = d.Handle(context.Background(), bad, body)
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = d.Handle(context.Background(), http.Header{}, body)
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
	require.Equal(t, 1, calls)

	wrongKey := []byte(`{"encrypt":"` + encrypt(t, messageEvent, "other") + `"}`)
	_, err = d.Handle(context.Background(), signed(wrongKey), wrongKey)
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestDispatcher_EncryptedWithoutKey(t *testing.T) {
	d := event.NewDispatcher(verificationToken, "")
	body := []byte(`{"encrypt":"` + encrypt(t, messageEvent, encryptKey) + `"}`)

	resp, err := d.Handle(context.Background(), http.Header{}, body)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDispatcher_TokenMismatch(t *testing.T) {
	d := event.NewDispatcher("other-token", "").
		OnP2MessageReceiveV1(func(context.Context, *event.P2MessageReceiveV1) error {
			t.Fatal("handler must not run")

			return nil
		})

	_, err := d.Handle(context.Background(), http.Header{}, []byte(messageEvent))
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
}

func TestDispatcher_Unhandled(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	ins, err := metrics.New(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	d := event.NewDispatcher(verificationToken, "", event.WithMetrics(ins))

	resp, err := d.Handle(context.Background(), http.Header{}, []byte(messageEvent))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, string(resp.Body), "im.message.receive_v1")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var sum metricdata.Sum[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "lark.event.received" {
				sum, _ = m.Data.(metricdata.Sum[int64])
			}
		}
	}
	require.Len(t, sum.DataPoints, 1)
	require.EqualValues(t, 1, sum.DataPoints[0].Value)
	outcome, _ := sum.DataPoints[0].Attributes.Value("outcome")
	require.Equal(t, "unhandled", outcome.AsString())
}

func TestDispatcher_HandlerError(t *testing.T) {
	d := event.NewDispatcher(verificationToken, "").
		OnP2MessageReceiveV1(func(context.Context, *event.P2MessageReceiveV1) error {
			return errors.New("boom")
		})

	resp, err := d.Handle(context.Background(), http.Header{}, []byte(messageEvent))
	require.EqualError(t, err, "boom")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestDispatcher_Malformed(t *testing.T) {
	d := event.NewDispatcher(verificationToken, "")

	resp, err := d.Handle(context.Background(), http.Header{}, []byte(`not json`))
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDispatcher_AppTicket(t *testing.T) {
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		t.Fatal("no api call expected")

		return nil, nil
	})

	var seen string
	d := event.NewDispatcher(verificationToken, "", event.WithTicketStore(c.Tokens())).
		OnAppTicket(func(_ context.Context, ev *event.AppTicketEvent) error {
			seen = ev.Event.AppTicket

			return nil
		})

	body := `{"ts":"1700000000.1","uuid":"u1","token":"v-token","type":"event_callback",
		"event":{"app_id":"cli_test","app_ticket":"ticket-1","type":"app_ticket"}}`
	resp, err := d.Handle(context.Background(), http.Header{}, []byte(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ticket-1", seen)

	ticket, err := c.Tokens().AppTicket(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ticket-1", ticket)
}

func TestDispatcher_AppTicketWithoutHandler(t *testing.T) {
	d := event.NewDispatcher(verificationToken, "")

	resp, err := d.Handle(context.Background(), http.Header{},
		[]byte(`{"token":"v-token","type":"event_callback","event":{"app_ticket":"t","type":"app_ticket"}}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDispatcher_CustomizedEvent(t *testing.T) {
	var got *event.CustomizedEvent
	d := event.NewDispatcher(verificationToken, "").
		OnCustomizedEvent("contact.user.created_v3", func(_ context.Context, ev *event.CustomizedEvent) error {
			got = ev

			return nil
		})

	body := `{"schema":"2.0","header":{"event_id":"ev2","event_type":"contact.user.created_v3","token":"v-token"},
		"event":{"object":{"open_id":"ou_9"}}}`
	_, err := d.Handle(context.Background(), http.Header{}, []byte(body))
	require.NoError(t, err)
	require.Equal(t, "contact.user.created_v3", got.EventType)
	require.Equal(t, "ev2", got.Header.EventID)
	require.Equal(t, map[string]any{"open_id": "ou_9"}, got.Event["object"])

	var raw map[string]any
	require.NoError(t, json.Unmarshal(got.Raw, &raw))
	require.Equal(t, "2.0", raw["schema"])
}

func TestDispatcher_DuplicateRegistration(t *testing.T) {
	d := event.NewDispatcher(verificationToken, "").
		OnCustomizedEvent("x", func(context.Context, *event.CustomizedEvent) error { return nil })

	require.Panics(t, func() {
		d.OnCustomizedEvent("x", func(context.Context, *event.CustomizedEvent) error { return nil })
	})
}

func TestDispatcher_ServeHTTP(t *testing.T) {
	d := event.NewDispatcher(verificationToken, "")
	srv := httptest.NewServer(d)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(srv.URL, "application/json",
		strings.NewReader(`{"challenge":"ch-3","token":"v-token","type":"url_verification"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "ch-3", out["challenge"])
}

func TestDecrypt_Invalid(t *testing.T) {
	_, err := event.Decrypt("!!!", encryptKey)
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = event.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")), encryptKey)
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	plain, err := event.Decrypt(encrypt(t, `{"a":1}`, encryptKey), encryptKey)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(plain))
}
