package ideahandler

import (
	"context"
	"testing"
	"time"

	"idea-portal-backend/lib/locales"
	apperrors "idea-portal-backend/lib/utils/app-errors"
	ideaapimodels "idea-portal-backend/models/api/idea"
	wsmodels "idea-portal-backend/models/ws"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type countingTx struct {
	calls int
}

func (c *countingTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

func (c *countingTx) Transactional() bool {
	return true
}

func TestReject(t *testing.T) {
	require.NoError(t, locales.Init("en"))
	ctx := context.Background()

	t.Run("идея переносится в архив со всеми полями подачи", func(t *testing.T) {
		env := newTestEnv(defaultCredentials())
		view := submit(t, env)
		oid, _ := primitive.ObjectIDFromHex(view.ID)
		source, _ := env.store.get(oid)

		archived, err := env.handler.Reject(ctx, view.ID, ideaapimodels.RejectData{
			Reason: "Not feasible", AdminID: "ADM-1", AdminRole: "L2Admin",
		})
		require.NoError(t, err)
		require.Equal(t, view.ID, archived.ID)
		require.Equal(t, "Rejected", archived.Status)
		require.Equal(t, "Not feasible", archived.RejectionReason)
		require.Equal(t, "Ravi Kumar", archived.RejectedBy)
		require.Equal(t, "L2Admin", archived.RejectedByRole)
		require.Equal(t, testNow, archived.RejectedAt)

		_, exists := env.store.get(oid)
		require.False(t, exists)
		require.Len(t, env.rejected.docs, 1)
		rec := env.rejected.docs[oid]
		require.Equal(t, "Not feasible", rec.RejectionReason)
		require.Equal(t, source.IdeaSubmission, rec.IdeaSubmission)

		_, err = env.handler.Get(ctx, view.ID)
		require.True(t, apperrors.IsNotFound(err))

		msgs, err := env.notifier.build()
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Equal(t, "asha@example.com", msgs[0].Recipient)
		require.Contains(t, msgs[0].Body, "Reason: Not feasible")
		require.Contains(t, msgs[0].Body, "Idea Portal Team")
	})
	t.Run("пустая причина заменяется значением по умолчанию", func(t *testing.T) {
		env := newTestEnv(defaultCredentials())
		view := submit(t, env)
		archived, err := env.handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "   "})
		require.NoError(t, err)
		require.Equal(t, DefaultRejectionReason, archived.RejectionReason)
	})
	t.Run("повторный отказ и неверный id", func(t *testing.T) {
		env := newTestEnv(defaultCredentials())
		view := submit(t, env)
		_, err := env.handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "Duplicate"})
		require.NoError(t, err)

		_, err = env.handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "Duplicate"})
		require.True(t, apperrors.IsNotFound(err))

		_, err = env.handler.Reject(ctx, "xyz", ideaapimodels.RejectData{})
		require.True(t, apperrors.IsValidation(err))
	})
	t.Run("прерванный перенос завершается фоновой задачей без дубликатов", func(t *testing.T) {
		env := newTestEnv(defaultCredentials())
		view := submit(t, env)
		oid, _ := primitive.ObjectIDFromHex(view.ID)

		env.store.failDelete = errors.New("network timeout")
		_, err := env.handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "Not feasible", AdminName: "Meera"})
		require.ErrorIs(t, err, apperrors.ErrStore)

		rec, exists := env.store.get(oid)
		require.True(t, exists)
		require.NotNil(t, rec.Relocation)
		list, err := env.handler.List(ctx, ideaapimodels.IdeaFilter{})
		require.NoError(t, err)
		require.Empty(t, list)
		_, err = env.handler.Advance(ctx, view.ID, ideaapimodels.AdvanceData{Status: "Approved", AdminRole: "L1Admin", AdminName: "Meera"})
		require.True(t, apperrors.IsNotFound(err))

		env.store.failDelete = nil
		done, err := env.handler.ResumeRelocations(ctx, testNow)
		require.NoError(t, err)
		require.Equal(t, 1, done)

		_, exists = env.store.get(oid)
		require.False(t, exists)
		require.Len(t, env.rejected.docs, 1)
		require.Equal(t, 1, env.rejected.inserts)
		require.Equal(t, "Meera", env.rejected.docs[oid].RejectedBy)

		msgs, err := env.notifier.build()
		require.NoError(t, err)
		require.Len(t, msgs, 1)
	})
	t.Run("повторный запрос отказа дозавершает перенос", func(t *testing.T) {
		env := newTestEnv(defaultCredentials())
		view := submit(t, env)
		env.store.failDelete = errors.New("network timeout")
		_, err := env.handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "First"})
		require.Error(t, err)

		env.store.failDelete = nil
		archived, err := env.handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "Second"})
		require.NoError(t, err)
		require.Equal(t, "First", archived.RejectionReason)
	})
	t.Run("перенос выполняется в транзакции", func(t *testing.T) {
		tx := &countingTx{}
		store, rejected := newFakeIdeaStore(), newFakeRejectedStore()
		handler := NewInstance(Deps{Store: store, RejectedStore: rejected, Tx: tx, Now: func() time.Time { return testNow }})
		view, err := handler.Submit(ctx, validSubmission(), nil)
		require.NoError(t, err)
		_, err = handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "Not feasible"})
		require.NoError(t, err)
		require.Equal(t, 1, tx.calls)
		require.Len(t, rejected.docs, 1)
	})
	t.Run("в транзакции существующая копия не вставляется повторно", func(t *testing.T) {
		tx := &countingTx{}
		store, rejected := newFakeIdeaStore(), newFakeRejectedStore()
		handler := NewInstance(Deps{Store: store, RejectedStore: rejected, Tx: tx, Now: func() time.Time { return testNow }})
		view, err := handler.Submit(ctx, validSubmission(), nil)
		require.NoError(t, err)
		oid, _ := primitive.ObjectIDFromHex(view.ID)

		store.failDelete = errors.New("network timeout")
		_, err = handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "Not feasible"})
		require.Error(t, err)
		require.Equal(t, 1, rejected.inserts)

		store.failDelete = nil
		done, err := handler.ResumeRelocations(ctx, testNow)
		require.NoError(t, err)
		require.Equal(t, 1, done)
		require.Equal(t, 1, rejected.inserts)
		_, exists := store.get(oid)
		require.False(t, exists)
		require.Equal(t, "Not feasible", rejected.docs[oid].RejectionReason)
	})
	t.Run("копия, вставленная параллельно", func(t *testing.T) {
		for _, transactional := range []bool{false, true} {
			store, rejected := newFakeIdeaStore(), newFakeRejectedStore()
			deps := Deps{Store: store, RejectedStore: rejected, Now: func() time.Time { return testNow }}
			if transactional {
				deps.Tx = &countingTx{}
			}
			handler := NewInstance(deps)
			view, err := handler.Submit(ctx, validSubmission(), nil)
			require.NoError(t, err)
			oid, _ := primitive.ObjectIDFromHex(view.ID)
			rec, _ := store.get(oid)
			require.NoError(t, rejected.Create(ctx, ArchiveCopy(rec)))
			// копия появилась между проверкой и вставкой
			rejected.missOnGet = true

			_, err = handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "Duplicate"})
			_, exists := store.get(oid)
			if transactional {
				require.ErrorIs(t, err, apperrors.ErrStore)
				require.True(t, exists)
				continue
			}
			require.NoError(t, err)
			require.False(t, exists)
			require.Len(t, rejected.docs, 1)
		}
	})
	t.Run("повторное завершение переноса не дублирует письмо", func(t *testing.T) {
		env := newTestEnv(defaultCredentials())
		view := submit(t, env)
		oid, _ := primitive.ObjectIDFromHex(view.ID)
		env.store.failDelete = errors.New("network timeout")
		_, err := env.handler.Reject(ctx, view.ID, ideaapimodels.RejectData{Reason: "Duplicate"})
		require.Error(t, err)
		env.store.failDelete = nil
		marked, exists := env.store.get(oid)
		require.True(t, exists)

		// фоновая задача и повторный запрос видят одну и ту же отметку
		handler := env.handler.(impl)
		_, err = handler.finishRelocation(ctx, marked)
		require.NoError(t, err)
		archived, err := handler.finishRelocation(ctx, marked)
		require.NoError(t, err)
		require.Equal(t, "Duplicate", archived.RejectionReason)

		require.Len(t, env.rejected.docs, 1)
		msgs, err := env.notifier.build()
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Equal(t, []wsmodels.EventCode{wsmodels.IdeaSubmittedEvent, wsmodels.IdeaRejectedEvent}, env.events.codes())
	})
}

func TestListRejected(t *testing.T) {
	env := newTestEnv(defaultCredentials())
	ctx := context.Background()
	byStatus := submit(t, env)
	byReject := submit(t, env)

	_, err := env.handler.Advance(ctx, byStatus.ID, ideaapimodels.AdvanceData{Status: "Rejected", AdminName: "Meera", AdminRole: "L1Admin"})
	require.NoError(t, err)
	_, err = env.handler.Reject(ctx, byReject.ID, ideaapimodels.RejectData{Reason: "Duplicate"})
	require.NoError(t, err)

	list, err := env.handler.ListRejected(ctx, ideaapimodels.IdeaFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	require.ElementsMatch(t, []string{byStatus.ID, byReject.ID}, ids)
	for _, rec := range list {
		require.Equal(t, "Rejected", rec.Status)
	}

	active, err := env.handler.List(ctx, ideaapimodels.IdeaFilter{IncludeRejected: true}.Normalize())
	require.NoError(t, err)
	require.Empty(t, active)
}
