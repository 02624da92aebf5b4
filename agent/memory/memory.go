package memory

import (
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

const DefaultCapacity = 10

// Memory is a bounded, ordered log of conversation turns. Eviction is
// strict FIFO: appending at capacity drops the oldest turn. A Memory is
// exclusively owned by one session; callers serialize access through the
// owning Session.
type Memory struct {
	capacity int
	turns    []contractx.ConversationTurn
}

func New(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		capacity: capacity,
		turns:    make([]contractx.ConversationTurn, 0, capacity),
	}
}

func (m *Memory) Append(turn contractx.ConversationTurn) {
	if len(m.turns) == m.capacity {
		copy(m.turns, m.turns[1:])
		m.turns = m.turns[:m.capacity-1]
	}
	m.turns = append(m.turns, turn)
}

// Recent returns the turns oldest-first. The returned slice is a copy;
// appending to memory never mutates a previously returned snapshot.
func (m *Memory) Recent() []contractx.ConversationTurn {
	out := make([]contractx.ConversationTurn, len(m.turns))
	copy(out, m.turns)
	return out
}

func (m *Memory) Len() int {
	return len(m.turns)
}

func (m *Memory) Capacity() int {
	return m.capacity
}
