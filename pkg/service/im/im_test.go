package im_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"openlark/pkg/lark"
	"openlark/pkg/lark/larktest"
	"openlark/pkg/serrors"
	"openlark/pkg/service/im"
)

func TestMessage_Create(t *testing.T) {
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/open-apis/im/v1/messages", r.URL.Path)
		require.Equal(t, "open_id", r.URL.Query().Get("receive_id_type"))
		require.Equal(t, "Bearer "+larktest.TenantToken, r.Header.Get("Authorization"))

		body := larktest.DecodeBody(t, r)
		require.Equal(t, "ou_123", body["receive_id"])
		require.Equal(t, "text", body["msg_type"])
		require.Equal(t, `{"text":"hello \"lark\""}`, body["content"])
		require.Equal(t, "dedupe-1", body["uuid"])

		return larktest.OK(`{"message_id":"om_1","msg_type":"text","chat_id":"oc_1",
			"sender":{"id":"cli_test","id_type":"app_id","sender_type":"app"},
			"body":{"content":"{\"text\":\"hello\"}"}}`), nil
	})

	req := im.NewCreateMessageReqBuilder().
		ReceiveIDType(im.ReceiveIDTypeOpenID).
		ReceiveID("ou_123").
		MsgType(im.MsgTypeText).
		Content(im.TextContent(`hello "lark"`)).
		UUID("dedupe-1").
		Build()

	resp, err := im.New(c).Message.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "om_1", resp.Data.MessageID)
	require.Equal(t, "oc_1", resp.Data.ChatID)
	require.Equal(t, "app", resp.Data.Sender.SenderType)
	require.Equal(t, "log-test", resp.LogID)
}

func TestMessage_Create_Validation(t *testing.T) {
	var calls atomic.Int32
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		calls.Add(1)

		return larktest.OK(`{}`), nil
	})
	svc := im.New(c)

	cases := []*im.CreateMessageReq{
		im.NewCreateMessageReqBuilder().ReceiveID("ou_1").MsgType(im.MsgTypeText).Content("{}").Build(),
		im.NewCreateMessageReqBuilder().ReceiveIDType("phone").ReceiveID("ou_1").MsgType(im.MsgTypeText).Content("{}").Build(),
		im.NewCreateMessageReqBuilder().ReceiveIDType(im.ReceiveIDTypeOpenID).MsgType(im.MsgTypeText).Content("{}").Build(),
		im.NewCreateMessageReqBuilder().ReceiveIDType(im.ReceiveIDTypeOpenID).ReceiveID("ou_1").MsgType("video").Content("{}").Build(),
		im.NewCreateMessageReqBuilder().ReceiveIDType(im.ReceiveIDTypeOpenID).ReceiveID("ou_1").MsgType(im.MsgTypeText).Build(),
		im.NewCreateMessageReqBuilder().ReceiveIDType(im.ReceiveIDTypeOpenID).ReceiveID("ou_1").MsgType(im.MsgTypeText).
			Content("{}").UUID(string(make([]byte, 51))).Build(),
	}
	for i, req := range cases {
		_, err := svc.Message.Create(context.Background(), req)
		require.ErrorIs(t, err, serrors.ErrValidation, "case %d", i)
	}
	require.EqualValues(t, 0, calls.Load())
}

func TestMessage_Reply(t *testing.T) {
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/open-apis/im/v1/messages/om_parent/reply", r.URL.Path)
		body := larktest.DecodeBody(t, r)
		require.Equal(t, true, body["reply_in_thread"])

		return larktest.OK(`{"message_id":"om_2","parent_id":"om_parent","root_id":"om_parent"}`), nil
	})

	req := im.NewReplyMessageReqBuilder().
		MessageID("om_parent").
		MsgType(im.MsgTypeText).
		Content(im.TextContent("ack")).
		ReplyInThread(true).
		Build()

	resp, err := im.New(c).Message.Reply(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "om_parent", resp.Data.ParentID)
}

func TestMessage_GetAndDelete(t *testing.T) {
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/open-apis/im/v1/messages/om_1", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			require.Equal(t, "union_id", r.URL.Query().Get("user_id_type"))

			return larktest.OK(`{"items":[{"message_id":"om_1","deleted":false}]}`), nil
		case http.MethodDelete:
			return larktest.JSON(http.StatusOK, `{"code":0,"msg":"success"}`), nil
		}
		t.Fatalf("unexpected method %s", r.Method)

		return nil, nil
	})
	svc := im.New(c)

	got, err := svc.Message.Get(context.Background(),
		im.NewGetMessageReqBuilder().MessageID("om_1").UserIDType(im.UserIDTypeUnionID).Build())
	require.NoError(t, err)
	require.Len(t, got.Data.Items, 1)

	raw, err := svc.Message.Delete(context.Background(), "om_1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, raw.StatusCode)

	_, err = svc.Message.Delete(context.Background(), "")
	require.ErrorIs(t, err, serrors.ErrValidation)
}

func TestMessage_Delete_NotOwner(t *testing.T) {
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		return larktest.Fail(http.StatusBadRequest, 230026, "No permission to recall this message"), nil
	})

	_, err := im.New(c).Message.Delete(context.Background(), "om_1")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.ErrorIs(t, err, &lark.APIError{Code: 230026})
}

func TestMessage_ListIterator(t *testing.T) {
	var tokens []string
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		q := r.URL.Query()
		require.Equal(t, "chat", q.Get("container_id_type"))
		require.Equal(t, "oc_1", q.Get("container_id"))
		require.Equal(t, "50", q.Get("page_size"))
		require.Equal(t, "1700000000", q.Get("start_time"))
		require.Equal(t, im.SortByCreateTimeDesc, q.Get("sort_type"))
		tokens = append(tokens, q.Get("page_token"))

		if q.Get("page_token") == "" {
			return larktest.OK(`{"items":[{"message_id":"om_1"},{"message_id":"om_2"}],"page_token":"t2","has_more":true}`), nil
		}

		return larktest.OK(`{"items":[{"message_id":"om_3"}],"has_more":false}`), nil
	})

	req := im.NewListMessageReqBuilder().
		ContainerID("oc_1").
		StartTime(1700000000).
		SortType(im.SortByCreateTimeDesc).
		PageSize(500).
		Build()
	require.Equal(t, 50, req.PageSize)

	msgs, err := im.New(c).Message.ListIterator(req).Collect(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "om_3", msgs[2].MessageID)
	require.Equal(t, []string{"", "t2"}, tokens)
}

func TestMessage_ListIterator_RetryKeepsStartToken(t *testing.T) {
	var tokens []string
	calls := 0
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		tokens = append(tokens, r.URL.Query().Get("page_token"))
		if calls == 1 {
			return larktest.Fail(http.StatusBadRequest, 230001, "param invalid"), nil
		}

		return larktest.OK(`{"items":[{"message_id":"om_9"}],"has_more":false}`), nil
	})

	req := im.NewListMessageReqBuilder().ContainerID("oc_1").PageToken("resume").Build()
	it := im.New(c).Message.ListIterator(req)
	require.Equal(t, "resume", it.PageToken())

	_, _, err := it.Next(context.Background())
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	msg, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "om_9", msg.MessageID)
	require.Equal(t, []string{"resume", "resume"}, tokens)
}

func TestMessage_List_Validation(t *testing.T) {
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		t.Fatal("request must not be sent")

		return nil, nil
	})

	req := im.NewListMessageReqBuilder().ContainerID("oc_1").StartTime(20).EndTime(10).Build()
	_, err := im.New(c).Message.List(context.Background(), req)
	require.ErrorIs(t, err, serrors.ErrValidation)
	require.ErrorContains(t, err, "end_time")
}

func TestMessageReaction(t *testing.T) {
	c, _ := larktest.NewClient(t, func(r *http.Request) (*http.Response, error) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/open-apis/im/v1/messages/om_1/reactions":
			body := larktest.DecodeBody(t, r)
			require.Equal(t, map[string]any{"emoji_type": "THUMBSUP"}, body["reaction_type"])

			return larktest.OK(`{"reaction_id":"r_1","reaction_type":{"emoji_type":"THUMBSUP"},
				"operator":{"operator_id":"cli_test","operator_type":"app"}}`), nil
		case r.Method == http.MethodGet && r.URL.Path == "/open-apis/im/v1/messages/om_1/reactions":
			require.Equal(t, "THUMBSUP", r.URL.Query().Get("reaction_type"))
			require.Equal(t, "20", r.URL.Query().Get("page_size"))

			return larktest.OK(`{"items":[{"reaction_id":"r_1"}],"has_more":false}`), nil
		case r.Method == http.MethodDelete && r.URL.Path == "/open-apis/im/v1/messages/om_1/reactions/r_1":
			return larktest.OK(`{"reaction_id":"r_1"}`), nil
		}
		t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)

		return nil, nil
	})
	svc := im.New(c)
	ctx := context.Background()

	created, err := svc.MessageReaction.Create(ctx,
		im.NewCreateMessageReactionReqBuilder().MessageID("om_1").EmojiType("THUMBSUP").Build())
	require.NoError(t, err)
	require.Equal(t, "r_1", created.Data.ReactionID)
	require.Equal(t, "app", created.Data.Operator.OperatorType)

	list, err := svc.MessageReaction.List(ctx,
		im.NewListMessageReactionReqBuilder().MessageID("om_1").ReactionType("THUMBSUP").Build())
	require.NoError(t, err)
	require.Len(t, list.Data.Items, 1)

	deleted, err := svc.MessageReaction.Delete(ctx, "om_1", "r_1")
	require.NoError(t, err)
	require.Equal(t, "r_1", deleted.Data.ReactionID)

	_, err = svc.MessageReaction.Create(ctx, im.NewCreateMessageReactionReqBuilder().MessageID("om_1").Build())
	require.ErrorIs(t, err, serrors.ErrValidation)
}

func TestPostContent(t *testing.T) {
	content, err := im.PostContent("en_us", "Deploy",
		[]im.PostElement{im.PostText("build "), im.PostLink("#42", "https://ci.example.com/42")},
		[]im.PostElement{im.PostAt("all")},
	)
	require.NoError(t, err)
	require.JSONEq(t, `{"en_us":{"title":"Deploy","content":[
		[{"tag":"text","text":"build "},{"tag":"a","text":"#42","href":"https://ci.example.com/42"}],
		[{"tag":"at","user_id":"all"}]]}}`, content)

	_, err = im.PostContent("", "x")
	require.ErrorIs(t, err, serrors.ErrValidation)
}
