package notifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"go.uber.org/mock/gomock"

	"openlark/internal/notifier"
	"openlark/pkg/domain"
	"openlark/pkg/lark"
	"openlark/pkg/messenger"
	mockmessenger "openlark/pkg/messenger/mock"
	"openlark/pkg/serrors"
	"openlark/pkg/storage"
	mockstorage "openlark/pkg/storage/mock"
)

const (
	openID  = "ou_7d8a6e6df7621556ce0d21922b676706ccs"
	content = `{"text":"hello"}`
)

func newTestNotifier(t *testing.T) (*gomock.Controller, *mockstorage.MockStorage, *mockmessenger.MockClient, notifier.Notifier) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)
	m := mockmessenger.NewMockClient(ctrl)
	n := notifier.New(st, m, notifier.Options{MaxAttempts: 3})

	return ctrl, st, m, n
}

// helper to wire Storage.WithTx to execute callback with a MockAllStorage.
func expectWithTx(
	t *testing.T,
	ctrl *gomock.Controller,
	m *mockstorage.MockStorage,
	fn func(tx *mockstorage.MockAllStorage)) {
	t.Helper()

	m.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cb func(storage.AllStorage) error) error {
			tx := mockstorage.NewMockAllStorage(ctrl)
			if fn != nil {
				fn(tx)
			}

			return cb(tx)
		},
	)
}

func pending(id domain.DeliveryID) *domain.Delivery {
	return &domain.Delivery{
		ID:            id,
		ReceiveIDType: "open_id",
		ReceiveID:     openID,
		MsgType:       "text",
		Content:       content,
		Status:        domain.DeliveryStatusPending,
	}
}

func TestNotifier_Enqueue(t *testing.T) {
	ctrl, st, _, n := newTestNotifier(t)
	id := domain.DeliveryID(uuid.New())

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDeliveries(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, deliveries ...domain.Delivery) ([]domain.Delivery, error) {
				if len(deliveries) != 1 {
					t.Fatalf("expected one delivery input")
				}
				d := deliveries[0]
				if d.ReceiveIDType != "open_id" || d.ReceiveID != openID {
					t.Fatalf("receiver was not normalized: %q %q", d.ReceiveIDType, d.ReceiveID)
				}
				if d.Status != domain.DeliveryStatusPending {
					t.Fatalf("expected PENDING, got %s", d.Status)
				}
				d.ID = id

				return []domain.Delivery{d}, nil
			},
		)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).DoAndReturn(
			func(_ context.Context, args river.JobArgs, _ *river.InsertOpts) (bool, error) {
				jobArgs, ok := args.(notifier.DeliveryJobArgs)
				if !ok {
					t.Fatalf("unexpected job args %T", args)
				}
				if jobArgs.DeliveryID != id.String() {
					t.Fatalf("expected job for %s, got %s", id, jobArgs.DeliveryID)
				}
				if jobArgs.InsertOpts().MaxAttempts != 3 {
					t.Fatalf("expected max attempts 3, got %d", jobArgs.InsertOpts().MaxAttempts)
				}

				return true, nil
			},
		)
	})

	d, err := n.Enqueue(context.Background(), domain.Delivery{
		ReceiveID: " " + openID,
		MsgType:   "text",
		Content:   content,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || d.ID != id {
		t.Fatalf("unexpected delivery: %+v", d)
	}
}

func TestNotifier_Enqueue_Invalid(t *testing.T) {
	_, _, _, n := newTestNotifier(t)

	cases := []struct {
		name     string
		delivery domain.Delivery
		kind     error
	}{
		{
			name:     "empty receiver",
			delivery: domain.Delivery{MsgType: "text", Content: content},
			kind:     serrors.ErrBadRequest,
		},
		{
			name:     "unknown receiver type",
			delivery: domain.Delivery{ReceiveIDType: "phone", ReceiveID: "1", MsgType: "text", Content: content},
			kind:     serrors.ErrBadRequest,
		},
		{
			name:     "missing msg type",
			delivery: domain.Delivery{ReceiveID: openID, Content: content},
			kind:     serrors.ErrValidation,
		},
		{
			name:     "content is not json",
			delivery: domain.Delivery{ReceiveID: openID, MsgType: "text", Content: "hello"},
			kind:     serrors.ErrValidation,
		},
	}

	for _, tc := range cases {
		// no storage calls expected
		_, err := n.Enqueue(context.Background(), tc.delivery)
		if err == nil || !errors.Is(err, tc.kind) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.kind, err)
		}
	}
}

func TestNotifier_Enqueue_PropagatesErrors(t *testing.T) {
	ctrl, st, _, n := newTestNotifier(t)
	in := domain.Delivery{ReceiveID: openID, MsgType: "text", Content: content}

	// error from StoreDeliveries
	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDeliveries(gomock.Any(), gomock.Any()).Return(nil, errors.New("store err"))
	})
	if _, err := n.Enqueue(context.Background(), in); err == nil {
		t.Fatalf("expected error from StoreDeliveries")
	}

	// error from AddJob
	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreDeliveries(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, deliveries ...domain.Delivery) ([]domain.Delivery, error) { return deliveries, nil },
		)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, errors.New("add err"))
	})
	if _, err := n.Enqueue(context.Background(), in); err == nil {
		t.Fatalf("expected error from AddJob")
	}
}

func TestNotifier_Deliver_Success(t *testing.T) {
	_, st, m, n := newTestNotifier(t)
	id := domain.DeliveryID(uuid.New())
	rl := lark.RateLimit{Limit: 50, Remaining: 49, ResetAt: time.Now().Add(time.Second)}

	st.EXPECT().DeliveryByID(gomock.Any(), id).Return(pending(id), nil)
	m.EXPECT().Send(gomock.Any(), messenger.Message{
		ReceiveIDType: "open_id",
		ReceiveID:     openID,
		MsgType:       "text",
		Content:       content,
		UUID:          id.String(),
	}).Return(messenger.SendRes{MessageID: "om_1"}, rl, nil)
	st.EXPECT().UpdateDeliveryByID(gomock.Any(), id, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.DeliveryID, updates storage.DeliveryUpdates) (*domain.Delivery, error) {
			if updates.Status != domain.DeliveryStatusCompleted || updates.MessageID == nil || *updates.MessageID != "om_1" {
				t.Fatalf("expected completed update with message id, got %+v", updates)
			}
			if updates.Attempted {
				t.Fatalf("a successful send is not a failed attempt")
			}
			d := pending(id)
			d.Status = domain.DeliveryStatusCompleted
			d.MessageID = *updates.MessageID

			return d, nil
		},
	)

	d, gotRL, err := n.Deliver(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != domain.DeliveryStatusCompleted || d.MessageID != "om_1" {
		t.Fatalf("unexpected delivery: %+v", d)
	}
	if gotRL != rl {
		t.Fatalf("expected rate limit %+v, got %+v", rl, gotRL)
	}
}

func TestNotifier_Deliver_Failures(t *testing.T) {
	cases := []struct {
		name    string
		sendErr error
		check   func(t *testing.T, updates storage.DeliveryUpdates)
	}{
		{
			name:    "rate limited does not count as attempt",
			sendErr: serrors.With(serrors.ErrRateLimited, "too many requests"),
			check: func(t *testing.T, updates storage.DeliveryUpdates) {
				t.Helper()
				if updates.Attempted || updates.Status != "" {
					t.Fatalf("unexpected updates %+v", updates)
				}
			},
		},
		{
			name:    "permanent error fails at once",
			sendErr: serrors.With(serrors.ErrBadRequest, "invalid receive_id"),
			check: func(t *testing.T, updates storage.DeliveryUpdates) {
				t.Helper()
				if !updates.Attempted || updates.Status != domain.DeliveryStatusFailed || updates.MaxAttempts != 0 {
					t.Fatalf("unexpected updates %+v", updates)
				}
			},
		},
		{
			name:    "transient error is retried up to max attempts",
			sendErr: serrors.With(serrors.ErrUnavailable, "bad gateway"),
			check: func(t *testing.T, updates storage.DeliveryUpdates) {
				t.Helper()
				if !updates.Attempted || updates.Status != domain.DeliveryStatusFailed || updates.MaxAttempts != 3 {
					t.Fatalf("unexpected updates %+v", updates)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, st, m, n := newTestNotifier(t)
			id := domain.DeliveryID(uuid.New())

			st.EXPECT().DeliveryByID(gomock.Any(), id).Return(pending(id), nil)
			m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(messenger.SendRes{}, lark.RateLimit{}, tc.sendErr)
			st.EXPECT().UpdateDeliveryByID(gomock.Any(), id, gomock.Any()).DoAndReturn(
				func(_ context.Context, _ domain.DeliveryID, updates storage.DeliveryUpdates) (*domain.Delivery, error) {
					tc.check(t, updates)
					if updates.LastError == nil || *updates.LastError != tc.sendErr.Error() {
						t.Fatalf("expected last error to be stored, got %v", updates.LastError)
					}

					return pending(id), nil
				},
			)

			_, _, err := n.Deliver(context.Background(), id)
			if !errors.Is(err, tc.sendErr) {
				t.Fatalf("expected %v, got %v", tc.sendErr, err)
			}
		})
	}
}

func TestNotifier_Deliver_NotPending(t *testing.T) {
	_, st, _, n := newTestNotifier(t)
	id := domain.DeliveryID(uuid.New())

	// missing delivery
	st.EXPECT().DeliveryByID(gomock.Any(), id).Return(nil, nil)
	_, _, err := n.Deliver(context.Background(), id)
	if !errors.Is(err, serrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// canceled delivery is never sent
	canceled := pending(id)
	canceled.Status = domain.DeliveryStatusCanceled
	st.EXPECT().DeliveryByID(gomock.Any(), id).Return(canceled, nil)
	d, _, err := n.Deliver(context.Background(), id)
	if !errors.Is(err, serrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if d.Status != domain.DeliveryStatusCanceled {
		t.Fatalf("unexpected delivery: %+v", d)
	}
}

func TestNotifier_Deliver_CanceledWhileSending(t *testing.T) {
	_, st, m, n := newTestNotifier(t)
	id := domain.DeliveryID(uuid.New())

	st.EXPECT().DeliveryByID(gomock.Any(), id).Return(pending(id), nil)
	m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(messenger.SendRes{MessageID: "om_2"}, lark.RateLimit{}, nil)
	st.EXPECT().UpdateDeliveryByID(gomock.Any(), id, gomock.Any()).Return(nil, nil)

	d, _, err := n.Deliver(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MessageID != "om_2" {
		t.Fatalf("expected the sent message id, got %+v", d)
	}
}

func TestNotifier_Deliveries_SuccessAndPagination(t *testing.T) {
	_, st, _, n := newTestNotifier(t)
	status := domain.DeliveryStatusPending
	cursorTime := time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond)
	cursor := cursorTime.Format(time.RFC3339Nano)

	page := storage.DeliveryPage{
		Deliveries: []domain.Delivery{{ReceiveID: openID}},
		NextCursor: func() *time.Time {
			t := cursorTime.Add(-time.Minute)

			return &t
		}(),
	}

	st.EXPECT().Deliveries(gomock.Any(), status, cursorTime, uint(10)).Return(page, nil)

	deliveries, next, err := n.Deliveries(context.Background(), status, cursor, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deliveries) != 1 || deliveries[0].ReceiveID != openID {
		t.Fatalf("unexpected deliveries: %+v", deliveries)
	}
	if next != cursorTime.Add(-time.Minute).Format(time.RFC3339Nano) {
		t.Fatalf("unexpected next cursor %q", next)
	}
}

func TestNotifier_Deliveries_InvalidCursor(t *testing.T) {
	_, _, _, n := newTestNotifier(t)
	_, _, err := n.Deliveries(context.Background(), "", "not-a-time", 5)
	if err == nil || !errors.Is(err, serrors.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestNotifier_Cancel(t *testing.T) {
	_, st, _, n := newTestNotifier(t)
	id := domain.DeliveryID(uuid.New())

	// pending delivery is canceled
	canceled := pending(id)
	canceled.Status = domain.DeliveryStatusCanceled
	st.EXPECT().UpdateDeliveryByID(gomock.Any(), id, storage.DeliveryUpdates{Status: domain.DeliveryStatusCanceled}).
		Return(canceled, nil)
	d, err := n.Cancel(context.Background(), id)
	if err != nil || d.Status != domain.DeliveryStatusCanceled {
		t.Fatalf("unexpected: delivery=%+v err=%v", d, err)
	}

	// completed delivery cannot be canceled
	completed := pending(id)
	completed.Status = domain.DeliveryStatusCompleted
	st.EXPECT().UpdateDeliveryByID(gomock.Any(), id, gomock.Any()).Return(nil, nil)
	st.EXPECT().DeliveryByID(gomock.Any(), id).Return(completed, nil)
	_, err = n.Cancel(context.Background(), id)
	if !errors.Is(err, serrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// missing delivery
	st.EXPECT().UpdateDeliveryByID(gomock.Any(), id, gomock.Any()).Return(nil, nil)
	st.EXPECT().DeliveryByID(gomock.Any(), id).Return(nil, nil)
	_, err = n.Cancel(context.Background(), id)
	if !errors.Is(err, serrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotifier_Delivery(t *testing.T) {
	_, st, _, n := newTestNotifier(t)
	id := domain.DeliveryID(uuid.New())

	// found
	st.EXPECT().DeliveryByID(gomock.Any(), id).Return(pending(id), nil)
	d, err := n.Delivery(context.Background(), id)
	if err != nil || d == nil || d.ID != id {
		t.Fatalf("unexpected: delivery=%+v err=%v", d, err)
	}

	// not found
	st.EXPECT().DeliveryByID(gomock.Any(), id).Return(nil, nil)
	_, err = n.Delivery(context.Background(), id)
	if err == nil || !errors.Is(err, serrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// storage error
	st.EXPECT().DeliveryByID(gomock.Any(), id).Return(nil, errors.New("boom"))
	_, err = n.Delivery(context.Background(), id)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestNotifier_Delete(t *testing.T) {
	_, st, _, n := newTestNotifier(t)
	id := domain.DeliveryID(uuid.New())

	// success
	st.EXPECT().DeleteDelivery(gomock.Any(), id).Return(&domain.Delivery{}, nil)
	if err := n.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// not found
	st.EXPECT().DeleteDelivery(gomock.Any(), id).Return(nil, nil)
	err := n.Delete(context.Background(), id)
	if err == nil || !errors.Is(err, serrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// storage error
	st.EXPECT().DeleteDelivery(gomock.Any(), id).Return(nil, errors.New("boom"))
	if err := n.Delete(context.Background(), id); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
