package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/panaderia/registros/backend/internal/registro"
	"github.com/panaderia/registros/backend/internal/registro/repository"
	"github.com/panaderia/registros/backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// countingRepo wraps a MemoryRepo and counts store round trips.
type countingRepo struct {
	*repository.MemoryRepo
	reads, updates, deletes int
	// beforeWrite runs between the read and the write, to simulate races
	beforeWrite func()
	writeErr    error
}

func newCountingRepo() *countingRepo {
	return &countingRepo{MemoryRepo: repository.NewMemoryRepo()}
}

func (c *countingRepo) FindByID(ctx context.Context, id int64) (*registro.Registro, error) {
	c.reads++
	return c.MemoryRepo.FindByID(ctx, id)
}

func (c *countingRepo) UpdateData(ctx context.Context, id int64, data datatypes.JSONMap) error {
	c.updates++
	if c.beforeWrite != nil {
		c.beforeWrite()
	}
	if c.writeErr != nil {
		return c.writeErr
	}
	return c.MemoryRepo.UpdateData(ctx, id, data)
}

func (c *countingRepo) Delete(ctx context.Context, id int64) error {
	c.deletes++
	if c.beforeWrite != nil {
		c.beforeWrite()
	}
	if c.writeErr != nil {
		return c.writeErr
	}
	return c.MemoryRepo.Delete(ctx, id)
}

func (c *countingRepo) resetCounts() { c.reads, c.updates, c.deletes = 0, 0, 0 }

func seed(t *testing.T, svc Service, amasadoras ...any) *registro.Registro {
	t.Helper()
	r, err := svc.Create(context.Background(), map[string]any{"fecha": "2026-04-01", "turno": "noche", "amasadoras": amasadoras})
	require.NoError(t, err)
	return r
}

func TestRemoveAmasadora_UpdatesAndPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	svc := New(repo)
	r := seed(t, svc, "A", "B", "C")
	repo.resetCounts()

	out, err := svc.RemoveAmasadora(ctx, r.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, out.UpdatedID)
	require.Nil(t, out.DeletedRegistro)
	require.Equal(t, r.ID, *out.UpdatedID)
	require.Equal(t, 2, out.AmasadorasRestantes)
	require.Equal(t, 1, repo.reads)
	require.Equal(t, 1, repo.updates)
	require.Equal(t, 0, repo.deletes)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, []any{"A", "C"}, got.Amasadoras())
	require.Equal(t, "noche", got.Data["turno"])
	require.Equal(t, "2026-04-01", got.Fecha)
}

func TestRemoveAmasadora_LastOneDeletesRegistro(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	svc := New(repo)
	r := seed(t, svc, "X")
	repo.resetCounts()

	before := testutil.ToFloat64(metrics.AmasadorasRemoved.WithLabelValues("deleted"))
	out, err := svc.RemoveAmasadora(ctx, r.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, out.DeletedRegistro)
	require.Nil(t, out.UpdatedID)
	require.Equal(t, r.ID, *out.DeletedRegistro)
	require.Equal(t, 0, out.AmasadorasRestantes)
	require.Equal(t, 1, repo.reads)
	require.Equal(t, 0, repo.updates)
	require.Equal(t, 1, repo.deletes)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.AmasadorasRemoved.WithLabelValues("deleted")))

	_, err = svc.Get(ctx, r.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveAmasadora_OutOfRangeNeverWrites(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	svc := New(repo)
	r := seed(t, svc, "A")

	for _, idx := range []int{-1, 1, 5} {
		repo.resetCounts()
		_, err := svc.RemoveAmasadora(ctx, r.ID, idx)
		require.Error(t, err)
		require.Equal(t, KindNotFound, KindOf(err))
		require.Equal(t, MsgAmasadoraNotFound, Message(err))
		require.Equal(t, 1, repo.reads)
		require.Zero(t, repo.updates+repo.deletes)
	}

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, []any{"A"}, got.Amasadoras())
}

func TestRemoveAmasadora_MissingListIsEmpty(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	r, err := svc.Create(ctx, map[string]any{"fecha": "2026-04-01", "amasadoras": "not-a-list"})
	require.NoError(t, err)

	_, err = svc.RemoveAmasadora(ctx, r.ID, 0)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, MsgAmasadoraNotFound, Message(err))
}

func TestRemoveAmasadora_UnknownRegistro(t *testing.T) {
	repo := newCountingRepo()
	svc := New(repo)

	_, err := svc.RemoveAmasadora(context.Background(), 999, 0)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, MsgRegistroNotFound, Message(err))
	require.Equal(t, 1, repo.reads)
	require.Zero(t, repo.updates+repo.deletes)
}

func TestRemoveAmasadora_DeletedBetweenReadAndWrite(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	svc := New(repo)
	r := seed(t, svc, "A", "B")
	repo.beforeWrite = func() { _ = repo.MemoryRepo.Delete(ctx, r.ID) }

	_, err := svc.RemoveAmasadora(ctx, r.ID, 0)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, MsgRegistroNotFound, Message(err))
}

func TestRemoveAmasadora_WriteFailureIsInternal(t *testing.T) {
	repo := newCountingRepo()
	svc := New(repo)
	r := seed(t, svc, "A", "B")
	repo.writeErr = errors.New("connection reset")

	_, err := svc.RemoveAmasadora(context.Background(), r.ID, 0)
	require.Error(t, err)
	require.Equal(t, KindInternal, KindOf(err))
	require.Equal(t, "connection reset", Message(err))
}

func TestRemoveAmasadora_EveryIndex(t *testing.T) {
	ctx := context.Background()
	src := []any{"a", "b", "c", "d"}
	for i := range src {
		svc := NewMemoryService()
		r := seed(t, svc, src...)
		out, err := svc.RemoveAmasadora(ctx, r.ID, i)
		require.NoError(t, err)
		require.Equal(t, len(src)-1, out.AmasadorasRestantes)

		got, err := svc.Get(ctx, r.ID)
		require.NoError(t, err)
		want := append(append([]any{}, src[:i]...), src[i+1:]...)
		require.Equal(t, want, got.Amasadoras())
	}
}

func TestOutcomeJSON(t *testing.T) {
	id := int64(7)
	b, err := json.Marshal(&Outcome{UpdatedID: &id, AmasadorasRestantes: 2})
	require.NoError(t, err)
	require.JSONEq(t, `{"updatedId":7,"amasadorasRestantes":2}`, string(b))

	id = 9
	b, err = json.Marshal(&Outcome{DeletedRegistro: &id})
	require.NoError(t, err)
	require.JSONEq(t, `{"deletedRegistro":9,"amasadorasRestantes":0}`, string(b))
}

func TestParseRemoveParams(t *testing.T) {
	id, idx, err := ParseRemoveParams("7", "1")
	require.NoError(t, err)
	require.EqualValues(t, 7, id)
	require.Equal(t, 1, idx)

	for _, tc := range [][2]string{{"abc", "1"}, {"7", "x"}, {"", "0"}, {"7", "1.5"}} {
		_, _, err := ParseRemoveParams(tc[0], tc[1])
		require.ErrorIs(t, err, ErrInvalidArgument, "params %v", tc)
		require.Equal(t, MsgInvalidParams, Message(err))
	}

	_, err = ParseID("nope")
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, MsgInvalidID, Message(err))
}

func TestCreate_Fecha(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	r, err := svc.Create(ctx, map[string]any{"amasadoras": []any{}})
	require.NoError(t, err)
	require.Equal(t, "", r.Fecha)

	_, err = svc.Create(ctx, map[string]any{"fecha": 20260101})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Create(ctx, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeleteAndCount(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	a := seed(t, svc, "A")
	seed(t, svc, "B")

	n, err := svc.Count(ctx, repository.ListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	require.NoError(t, svc.Delete(ctx, a.ID))
	require.ErrorIs(t, svc.Delete(ctx, a.ID), ErrNotFound)

	deleted, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
}
