package larkim_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"openlark/pkg/lark/larktest"
	"openlark/pkg/messenger"
	"openlark/pkg/messenger/larkim"
	"openlark/pkg/serrors"
)

func withRateLimit(resp *http.Response, limit, remaining, reset string) *http.Response {
	resp.Header.Set("X-Ogw-Ratelimit-Limit", limit)
	if remaining != "" {
		resp.Header.Set("X-Ogw-Ratelimit-Remaining", remaining)
	}
	resp.Header.Set("X-Ogw-Ratelimit-Reset", reset)

	return resp
}

func TestClient_Send_success(t *testing.T) {
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/open-apis/im/v1/messages", r.URL.Path)
		require.Equal(t, "chat_id", r.URL.Query().Get("receive_id_type"))

		body := larktest.DecodeBody(t, r)
		require.Equal(t, "oc_1", body["receive_id"])
		require.Equal(t, "text", body["msg_type"])
		require.Equal(t, "d-1", body["uuid"])

		return withRateLimit(larktest.OK(`{"message_id":"om_1"}`), "50", "49", "1"), nil
	})

	before := time.Now()
	res, rl, err := larkim.New(c).Send(context.Background(), messenger.Message{
		ReceiveIDType: "chat_id",
		ReceiveID:     "oc_1",
		MsgType:       "text",
		Content:       `{"text":"hi"}`,
		UUID:          "d-1",
	})
	require.NoError(t, err)
	require.Equal(t, "om_1", res.MessageID)
	require.Equal(t, 50, rl.Limit)
	require.Equal(t, 49, rl.Remaining)
	require.False(t, rl.ResetAt.Before(before.Add(time.Second)))
}

func TestClient_Send_rateLimited429(t *testing.T) {
	c, _ := larktest.NewClient(t, func(_ *http.Request) (*http.Response, error) {
		return withRateLimit(larktest.Fail(http.StatusTooManyRequests, 99991400, "too many requests"), "50", "", "30"), nil
	})

	res, rl, err := larkim.New(c).Send(context.Background(), messenger.Message{
		ReceiveIDType: "open_id",
		ReceiveID:     "ou_1",
		MsgType:       "text",
		Content:       `{"text":"hi"}`,
	})
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrRateLimited)
	require.Empty(t, res.MessageID)
	require.Equal(t, 50, rl.Limit)
	require.Equal(t, 0, rl.Remaining)
	require.True(t, rl.ResetAt.After(time.Now().Add(20*time.Second)))
}

func TestClient_Send_invalid(t *testing.T) {
	c, _ := larktest.NewClient(t, func(_ *http.Request) (*http.Response, error) {
		t.Fatal("invalid messages must not be sent")

		return nil, nil
	})

	_, rl, err := larkim.New(c).Send(context.Background(), messenger.Message{
		ReceiveIDType: "phone",
		ReceiveID:     "ou_1",
		MsgType:       "text",
		Content:       `{"text":"hi"}`,
	})
	require.ErrorIs(t, err, serrors.ErrValidation)
	require.True(t, rl.IsZero())
}

func TestClient_Recall(t *testing.T) {
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/open-apis/im/v1/messages/om_1", r.URL.Path)

		return withRateLimit(larktest.OK(`{}`), "5", "4", "1"), nil
	})

	rl, err := larkim.New(c).Recall(context.Background(), "om_1")
	require.NoError(t, err)
	require.Equal(t, 5, rl.Limit)
	require.Equal(t, 4, rl.Remaining)
}

func TestClient_Recall_notFound(t *testing.T) {
	c, _ := larktest.NewClient(t, func(_ *http.Request) (*http.Response, error) {
		return larktest.Fail(http.StatusNotFound, 230011, "message not found"), nil
	})

	_, err := larkim.New(c).Recall(context.Background(), "om_1")
	require.ErrorIs(t, err, serrors.ErrNotFound)
}
