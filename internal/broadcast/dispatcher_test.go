package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	ids []int64
	err error
}

func (f *fakeStore) AllUserIDs(context.Context) ([]int64, error) {
	return f.ids, f.err
}

type fakeSender struct {
	sent    []int64
	failFor map[int64]error
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, _ string) error {
	if err, ok := f.failFor[chatID]; ok {
		return err
	}
	f.sent = append(f.sent, chatID)
	return nil
}

func TestRunCountsFailuresAndContinues(t *testing.T) {
	store := &fakeStore{ids: []int64{1, 2, 3}}
	sender := &fakeSender{failFor: map[int64]error{2: errors.New("blocked by user")}}
	d := NewDispatcher(store, sender, time.Millisecond)

	sent, failed, err := d.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
	// Delivery to 3 is still attempted after 2 fails.
	assert.Equal(t, []int64{1, 3}, sender.sent)
}

func TestRunEmptySnapshot(t *testing.T) {
	d := NewDispatcher(&fakeStore{}, &fakeSender{}, time.Millisecond)

	sent, failed, err := d.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Zero(t, failed)
}

func TestRunSnapshotFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	sender := &fakeSender{}
	d := NewDispatcher(store, sender, time.Millisecond)

	_, _, err := d.Run(context.Background(), "hello")
	require.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	store := &fakeStore{ids: []int64{1, 2, 3}}
	sender := &fakeSender{}
	d := NewDispatcher(store, sender, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, failed, err := d.Run(ctx, "hello")
	require.NoError(t, err)
	// The first send happens, then the pacing select observes cancellation.
	assert.Equal(t, 1, sent)
	assert.Zero(t, failed)
}
