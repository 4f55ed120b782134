package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-planner-backend/internal/db/dbtest"
)

var base = time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)

func TestStore_RecordAndList(t *testing.T) {
	store := NewStore(dbtest.Open(t))
	ctx := context.Background()

	taskID := 12
	done := base.Add(25 * time.Minute)
	first, err := store.Record(ctx, Session{UserID: 1, TaskID: &taskID, Type: TypeWork, Duration: 25, StartedAt: base, CompletedAt: &done, IsCompleted: true})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = store.Record(ctx, Session{UserID: 1, Type: TypeShortBreak, Duration: 5, StartedAt: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	_, err = store.Record(ctx, Session{UserID: 1, Type: TypeWork, Duration: 50, StartedAt: base.Add(-40 * 24 * time.Hour), InterruptionCount: 2})
	require.NoError(t, err)
	_, err = store.Record(ctx, Session{UserID: 2, Type: TypeWork, Duration: 25, StartedAt: base})
	require.NoError(t, err)

	all, err := store.ListSince(ctx, 1, base.Add(-24*time.Hour), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, TypeWork, all[0].Type)
	assert.Equal(t, TypeShortBreak, all[1].Type)

	got := all[0]
	assert.Equal(t, first.ID, got.ID)
	require.NotNil(t, got.TaskID)
	assert.Equal(t, 12, *got.TaskID)
	assert.True(t, got.StartedAt.Equal(base))
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(done))
	assert.True(t, got.IsCompleted)
	assert.False(t, got.Interrupted)

	work, err := store.ListSince(ctx, 1, base.Add(-60*24*time.Hour), TypeWork)
	require.NoError(t, err)
	require.Len(t, work, 2)
	assert.True(t, work[0].Interrupted, "interruption count implies interrupted")
	assert.Equal(t, 2, work[0].InterruptionCount)
}

func TestStore_RecordValidates(t *testing.T) {
	store := NewStore(dbtest.Open(t))

	tests := []struct {
		name string
		sess Session
	}{
		{"no user", Session{Type: TypeWork, Duration: 25, StartedAt: base}},
		{"bad type", Session{UserID: 1, Type: "nap", Duration: 25, StartedAt: base}},
		{"no duration", Session{UserID: 1, Type: TypeWork, StartedAt: base}},
		{"no start", Session{UserID: 1, Type: TypeWork, Duration: 25}},
		{"negative interruptions", Session{UserID: 1, Type: TypeWork, Duration: 25, StartedAt: base, InterruptionCount: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Record(context.Background(), tt.sess)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestStore_Complete(t *testing.T) {
	store := NewStore(dbtest.Open(t))
	ctx := context.Background()

	sess, err := store.Record(ctx, Session{UserID: 1, Type: TypeWork, Duration: 25, StartedAt: base, InterruptionCount: 1})
	require.NoError(t, err)

	done := base.Add(26 * time.Minute)
	got, err := store.Complete(ctx, 1, sess.ID, done, true, 2)
	require.NoError(t, err)

	assert.True(t, got.IsCompleted)
	assert.True(t, got.Interrupted)
	assert.Equal(t, 3, got.InterruptionCount)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(done))

	_, err = store.Complete(ctx, 2, sess.ID, done, true, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CompleteOnlyOnce(t *testing.T) {
	store := NewStore(dbtest.Open(t))
	ctx := context.Background()

	sess, err := store.Record(ctx, Session{UserID: 1, Type: TypeWork, Duration: 25, StartedAt: base})
	require.NoError(t, err)

	done := base.Add(25 * time.Minute)
	_, err = store.Complete(ctx, 1, sess.ID, done, true, 2)
	require.NoError(t, err)

	_, err = store.Complete(ctx, 1, sess.ID, done.Add(time.Hour), false, 3)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	got, err := store.Get(ctx, 1, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, 2, got.InterruptionCount)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(done))

	recorded, err := store.Record(ctx, Session{UserID: 1, Type: TypeWork, Duration: 25, StartedAt: base, CompletedAt: &done, IsCompleted: true})
	require.NoError(t, err)
	_, err = store.Complete(ctx, 1, recorded.ID, done, true, 1)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(dbtest.Open(t))

	_, err := store.Get(context.Background(), 1, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
