package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler collects every event it receives.
type recordingHandler struct {
	events []*TaskEvent
	err    error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func TestNewTaskEvent(t *testing.T) {
	payload := map[string]string{"id": "abc"}

	event, err := NewTaskEvent(TypeTaskCreated, payload)
	require.NoError(t, err)

	assert.Equal(t, TypeTaskCreated, event.Type)
	assert.NotEqual(t, "", event.ID.String())
	assert.False(t, event.CreatedAt.IsZero())

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewTaskEventUnmarshalablePayload(t *testing.T) {
	_, err := NewTaskEvent(TypeTaskCreated, make(chan int))
	require.Error(t, err)
}

func TestEmitEventDeliversToAllHandlers(t *testing.T) {
	emitter := NewInMemoryEventEmitter(nil)

	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event, err := NewTaskEvent(TypeTaskUpdated, map[string]string{"id": "abc"})
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, event.ID, first.events[0].ID)
	assert.Equal(t, event.ID, second.events[0].ID)
}

func TestEmitEventContinuesPastFailingHandler(t *testing.T) {
	emitter := NewInMemoryEventEmitter(nil)

	handlerErr := errors.New("handler failure")
	failing := &recordingHandler{err: handlerErr}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	event, err := NewTaskEvent(TypeTaskDeleted, map[string]string{"id": "abc"})
	require.NoError(t, err)

	// The first error comes back, but delivery is not short-circuited.
	err = emitter.EmitEvent(context.Background(), event)
	require.ErrorIs(t, err, handlerErr)
	assert.Len(t, healthy.events, 1)
}

func TestEmitEventWithoutHandlers(t *testing.T) {
	emitter := NewInMemoryEventEmitter(nil)

	event, err := NewTaskEvent(TypeTaskCreated, nil)
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
}
