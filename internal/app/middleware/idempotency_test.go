package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staywise/internal/app/commands"
)

type testCommand struct {
	key string
}

func (c testCommand) Key() string            { return "test.command" }
func (c testCommand) IdempotencyKey() string { return c.key }
func (c testCommand) ResultPrototype() any   { return &testResult{} }

type testResult struct {
	Value string `json:"value"`
}

type countingHandler struct {
	calls int
	err   error
}

func (h *countingHandler) Handle(ctx context.Context, cmd testCommand) (*testResult, error) {
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	return &testResult{Value: "done"}, nil
}

type memoryStore struct {
	mu    sync.Mutex
	items map[string]IdempotencyRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: make(map[string]IdempotencyRecord)}
}

func (s *memoryStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *memoryStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.Key] = rec
	return nil
}

func newTestBus(handler *countingHandler, store IdempotencyStore) commands.Bus {
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, testCommand{}.Key(), handler)
	return ChainCommands(base, Idempotency(store, nil))
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	handler := &countingHandler{}
	bus := newTestBus(handler, newMemoryStore())
	cmd := testCommand{key: "idem-1"}

	first, err := commands.Dispatch[testCommand, *testResult](context.Background(), bus, cmd)
	require.NoError(t, err)
	second, err := commands.Dispatch[testCommand, *testResult](context.Background(), bus, cmd)
	require.NoError(t, err)

	assert.Equal(t, 1, handler.calls)
	assert.Equal(t, first, second)
}

func TestIdempotencyReplaysFailure(t *testing.T) {
	handler := &countingHandler{err: errors.New("boom")}
	bus := newTestBus(handler, newMemoryStore())
	cmd := testCommand{key: "idem-1"}

	_, err := commands.Dispatch[testCommand, *testResult](context.Background(), bus, cmd)
	require.Error(t, err)

	handler.err = nil
	_, err = commands.Dispatch[testCommand, *testResult](context.Background(), bus, cmd)
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, 1, handler.calls)
}

func TestIdempotencySkippedWithoutKey(t *testing.T) {
	handler := &countingHandler{}
	bus := newTestBus(handler, newMemoryStore())
	cmd := testCommand{}

	_, err := commands.Dispatch[testCommand, *testResult](context.Background(), bus, cmd)
	require.NoError(t, err)
	_, err = commands.Dispatch[testCommand, *testResult](context.Background(), bus, cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, handler.calls)
}

func TestIdempotencyKeysAreIndependent(t *testing.T) {
	handler := &countingHandler{}
	bus := newTestBus(handler, newMemoryStore())

	_, err := commands.Dispatch[testCommand, *testResult](context.Background(), bus, testCommand{key: "a"})
	require.NoError(t, err)
	_, err = commands.Dispatch[testCommand, *testResult](context.Background(), bus, testCommand{key: "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, handler.calls)
}
