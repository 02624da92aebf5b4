package memory

import (
	"fmt"
	"testing"
	"time"

	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

func TestMemoryAppendAndRecent(t *testing.T) {
	t.Parallel()

	m := New(5)
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.Append(contractx.ConversationTurn{Role: contractx.RoleUser, Text: "hello", Timestamp: ts})
	m.Append(contractx.ConversationTurn{Role: contractx.RoleAgent, Text: "hi there", Timestamp: ts.Add(time.Second)})

	turns := m.Recent()
	if len(turns) != 2 {
		t.Fatalf("len = %d, want 2", len(turns))
	}
	if turns[0].Role != contractx.RoleUser || turns[0].Text != "hello" || !turns[0].Timestamp.Equal(ts) {
		t.Fatalf("first turn = %+v", turns[0])
	}
	if turns[1].Role != contractx.RoleAgent || turns[1].Text != "hi there" {
		t.Fatalf("second turn = %+v", turns[1])
	}
}

func TestMemoryEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	const capacity = 4
	m := New(capacity)
	for i := 0; i < capacity+3; i++ {
		m.Append(contractx.ConversationTurn{
			Role: contractx.RoleUser,
			Text: fmt.Sprintf("turn-%d", i),
		})
		if m.Len() > capacity {
			t.Fatalf("after %d appends len = %d, exceeds capacity %d", i+1, m.Len(), capacity)
		}
	}

	turns := m.Recent()
	if len(turns) != capacity {
		t.Fatalf("len = %d, want %d", len(turns), capacity)
	}
	for i, turn := range turns {
		want := fmt.Sprintf("turn-%d", i+3)
		if turn.Text != want {
			t.Errorf("turns[%d].Text = %q, want %q", i, turn.Text, want)
		}
	}
}

func TestMemoryRecentReturnsSnapshot(t *testing.T) {
	t.Parallel()

	m := New(3)
	m.Append(contractx.ConversationTurn{Role: contractx.RoleUser, Text: "first"})
	snap := m.Recent()

	m.Append(contractx.ConversationTurn{Role: contractx.RoleAgent, Text: "second"})
	if len(snap) != 1 || snap[0].Text != "first" {
		t.Fatalf("earlier snapshot mutated: %+v", snap)
	}
}

func TestMemoryDefaultCapacity(t *testing.T) {
	t.Parallel()

	m := New(0)
	if m.Capacity() != DefaultCapacity {
		t.Fatalf("capacity = %d, want %d", m.Capacity(), DefaultCapacity)
	}
	m = New(-1)
	if m.Capacity() != DefaultCapacity {
		t.Fatalf("capacity = %d, want %d", m.Capacity(), DefaultCapacity)
	}
}

func TestSessionsGetCreatesOnce(t *testing.T) {
	t.Parallel()

	s := NewSessions(DefaultCapacity)
	a := s.Get("alpha")
	if a == nil || a.Memory == nil {
		t.Fatal("Get returned an uninitialized session")
	}
	if again := s.Get("alpha"); again != a {
		t.Fatal("Get returned a different session for the same id")
	}
	if b := s.Get("beta"); b == a {
		t.Fatal("distinct ids share a session")
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}
