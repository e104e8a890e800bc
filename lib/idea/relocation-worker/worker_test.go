package relocationworker

import (
	"context"
	ideahandler "idea-portal-backend/lib/idea"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeIdeas struct {
	ideahandler.Provider
	requestedBefore time.Time
}

func (f *fakeIdeas) ResumeRelocations(ctx context.Context, requestedBefore time.Time) (int, error) {
	f.requestedBefore = requestedBefore
	return 1, nil
}

func TestHandle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ideas := &fakeIdeas{}
	worker := newWorker(ideas, time.Minute, 30*time.Second, func() time.Time { return now })

	require.NoError(t, worker.handle(context.Background()))
	require.Equal(t, now.Add(-30*time.Second), ideas.requestedBefore)
}
