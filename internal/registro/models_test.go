package registro

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAmasadoras_MissingOrWrongType(t *testing.T) {
	require.Empty(t, (&Registro{}).Amasadoras())
	require.Empty(t, (&Registro{Data: datatypes.JSONMap{"amasadoras": "nope"}}).Amasadoras())
	require.Len(t, (&Registro{Data: datatypes.JSONMap{"amasadoras": []any{"A"}}}).Amasadoras(), 1)
}

func TestWithoutAmasadora_PreservesOrderAndKeys(t *testing.T) {
	r := &Registro{ID: 7, Data: datatypes.JSONMap{
		"fecha":      "2026-03-01",
		"turno":      "mañana",
		"amasadoras": []any{"A", "B", "C"},
	}}

	data, remaining, ok := r.WithoutAmasadora(1)
	require.True(t, ok)
	require.Equal(t, 2, remaining)
	require.Equal(t, []any{"A", "C"}, data["amasadoras"])
	require.Equal(t, "mañana", data["turno"])
	require.Equal(t, "2026-03-01", data["fecha"])

	// the source record is left alone
	require.Equal(t, []any{"A", "B", "C"}, r.Data["amasadoras"])
}

func TestWithoutAmasadora_EveryIndex(t *testing.T) {
	src := []any{"a", "b", "c", "d", "e"}
	for i := range src {
		r := &Registro{Data: datatypes.JSONMap{"amasadoras": append([]any(nil), src...)}}
		data, remaining, ok := r.WithoutAmasadora(i)
		require.True(t, ok)
		require.Equal(t, len(src)-1, remaining)

		want := append(append([]any{}, src[:i]...), src[i+1:]...)
		require.Equal(t, want, data["amasadoras"])
	}
}

func TestWithoutAmasadora_OutOfRange(t *testing.T) {
	r := &Registro{Data: datatypes.JSONMap{"amasadoras": []any{"A"}}}
	for _, idx := range []int{-1, 1, 5} {
		_, _, ok := r.WithoutAmasadora(idx)
		require.False(t, ok, "index %d", idx)
	}
	_, _, ok := (&Registro{}).WithoutAmasadora(0)
	require.False(t, ok)
}
