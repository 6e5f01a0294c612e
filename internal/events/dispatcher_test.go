package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishSubscribe(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()

	var seen []Event
	d.Subscribe(EventLoginFailed, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{
		Type:       EventLoginFailed,
		SubjectID:  "u1",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	require.Equal(t, "u1", seen[0].SubjectID)

	// events of other types do not reach the handler
	err = d.Publish(context.Background(), Event{Type: EventCsrfRejected})
	require.NoError(t, err)
	require.Len(t, seen, 1)
}
