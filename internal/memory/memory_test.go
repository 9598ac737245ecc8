package memory_test

import (
	"fmt"
	"testing"

	"kurisu-bot/internal/memory"
	"kurisu-bot/internal/model"
)

func TestMemory(t *testing.T) {
	t.Run("Append And History Order", func(t *testing.T) {
		m, err := memory.New(10, 4)
		if err != nil {
			t.Fatalf("failed to create memory: %v", err)
		}

		m.AddMessage(1, model.RoleUser, "hello")
		m.AddMessage(1, model.RoleAssistant, "hi")

		history := m.History(1)
		if len(history) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(history))
		}
		if history[0].Role != model.RoleUser || history[0].Content != "hello" {
			t.Errorf("unexpected first message: %+v", history[0])
		}
		if history[1].Role != model.RoleAssistant || history[1].Content != "hi" {
			t.Errorf("unexpected second message: %+v", history[1])
		}
	})

	t.Run("FIFO Eviction Beyond Max", func(t *testing.T) {
		const max = 5
		m, _ := memory.New(max, 4)

		for i := 0; i < max*3; i++ {
			m.AddMessage(1, model.RoleUser, fmt.Sprintf("msg-%d", i))
		}

		history := m.History(1)
		if len(history) != max {
			t.Fatalf("expected exactly %d messages, got %d", max, len(history))
		}
		// Most recent max messages, original relative order
		for i, msg := range history {
			want := fmt.Sprintf("msg-%d", max*3-max+i)
			if msg.Content != want {
				t.Errorf("position %d: expected %q, got %q", i, want, msg.Content)
			}
		}
	})

	t.Run("Users Are Isolated", func(t *testing.T) {
		m, _ := memory.New(10, 4)
		m.AddMessage(1, model.RoleUser, "from one")
		m.AddMessage(2, model.RoleUser, "from two")

		if got := m.History(1); len(got) != 1 || got[0].Content != "from one" {
			t.Errorf("unexpected history for user 1: %+v", got)
		}
		if got := m.History(2); len(got) != 1 || got[0].Content != "from two" {
			t.Errorf("unexpected history for user 2: %+v", got)
		}
	})

	t.Run("History Is A Copy", func(t *testing.T) {
		m, _ := memory.New(10, 4)
		m.AddMessage(1, model.RoleUser, "original")

		history := m.History(1)
		history[0].Content = "mutated"

		if got := m.History(1)[0].Content; got != "original" {
			t.Errorf("history mutation leaked into memory: %q", got)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		m, _ := memory.New(10, 4)
		m.AddMessage(1, model.RoleUser, "hello")
		m.Clear(1)

		if got := m.History(1); len(got) != 0 {
			t.Errorf("expected empty history after clear, got %d", len(got))
		}
	})

	t.Run("Idle User Log Evicted", func(t *testing.T) {
		m, _ := memory.New(10, 2)
		m.AddMessage(1, model.RoleUser, "a")
		m.AddMessage(2, model.RoleUser, "b")
		m.AddMessage(3, model.RoleUser, "c")

		if got := m.History(1); len(got) != 0 {
			t.Errorf("expected user 1 evicted from bounded user table, got %d messages", len(got))
		}
		if got := m.History(3); len(got) != 1 {
			t.Errorf("expected user 3 retained, got %d messages", len(got))
		}
	})
}
