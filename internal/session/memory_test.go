package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_LazyCreation(t *testing.T) {
	s := NewMemoryStore()

	// An unseen session id reads as empty, not an error.
	assert.Empty(t, s.History("unseen"))

	s.Append("unseen", Message{Role: RoleHuman, Content: "hello"})
	history := s.History("unseen")
	require.Len(t, history, 1)
	assert.Equal(t, RoleHuman, history[0].Role)
	assert.False(t, history[0].CreatedAt.IsZero())
}

func TestMemoryStore_AppendOrder(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		s.Append("cat", Message{Role: RoleHuman, Content: fmt.Sprintf("msg-%d", i)})
	}

	history := s.History("cat")
	require.Len(t, history, 5)
	for i, msg := range history {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.Content)
	}
}

func TestMemoryStore_Window(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 12; i++ {
		s.Append("cat", Message{Role: RoleHuman, Content: fmt.Sprintf("msg-%d", i)})
	}

	window := s.Window("cat", 10)
	require.Len(t, window, 10)
	assert.Equal(t, "msg-2", window[0].Content)
	assert.Equal(t, "msg-11", window[9].Content)

	// Shorter histories come back whole.
	assert.Len(t, s.Window("cat", 100), 12)

	// The full history stays queryable.
	assert.Len(t, s.History("cat"), 12)
}

func TestMemoryStore_HistoryIsACopy(t *testing.T) {
	s := NewMemoryStore()
	s.Append("cat", Message{Role: RoleHuman, Content: "original"})

	history := s.History("cat")
	history[0].Content = "mutated"

	assert.Equal(t, "original", s.History("cat")[0].Content)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	s.Append("a", Message{Role: RoleHuman, Content: "for a"})
	s.Append("b", Message{Role: RoleHuman, Content: "for b"})

	require.Len(t, s.History("a"), 1)
	require.Len(t, s.History("b"), 1)
	assert.Equal(t, "for a", s.History("a")[0].Content)
	assert.Equal(t, "for b", s.History("b")[0].Content)
}
