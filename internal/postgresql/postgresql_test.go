package postgresql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal"
	"github.com/taskboard/taskboard-api/internal/postgresql/db"
)

func TestConvertStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   db.Status
		want    internal.Status
		withErr bool
	}{
		{input: db.StatusTodo, want: internal.StatusTodo},
		{input: db.StatusOngoing, want: internal.StatusOngoing},
		{input: db.StatusComplete, want: internal.StatusComplete},
		{input: db.Status("archived"), withErr: true},
	}

	for _, tt := range tests {
		got, err := convertStatus(tt.input)
		if tt.withErr {
			require.Error(t, err)
			continue
		}

		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestNewStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, db.StatusTodo, newStatus(internal.StatusTodo))
	require.Equal(t, db.StatusOngoing, newStatus(internal.StatusOngoing))
	require.Equal(t, db.StatusComplete, newStatus(internal.StatusComplete))
	require.Equal(t, db.Status("invalid"), newStatus(internal.Status("nope")))
}

func TestConvertTask(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)

	got, err := convertTask(db.Tasks{
		ID:          7,
		Title:       "Buy milk",
		Description: "2%",
		Status:      db.StatusOngoing,
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
	require.Equal(t, internal.Task{
		ID:          7,
		Title:       "Buy milk",
		Description: "2%",
		Status:      internal.StatusOngoing,
		CreatedAt:   createdAt,
	}, got)

	_, err = convertTask(db.Tasks{Status: db.Status("bogus")})
	require.Error(t, err)
}
