package chat

import (
	"fmt"
	"testing"
)

func TestHistoryBoundedFIFO(t *testing.T) {
	h := NewHistory(8)
	for i := 0; i < 20; i++ {
		h.Record(RoleUser, fmt.Sprintf("msg-%d", i))
		if h.Len() > 8 {
			t.Fatalf("history exceeded capacity: %d", h.Len())
		}
	}
	msgs := h.Messages()
	if len(msgs) != 8 {
		t.Fatalf("len=%d", len(msgs))
	}
	for i, m := range msgs {
		want := fmt.Sprintf("msg-%d", 12+i)
		if m.Content != want {
			t.Fatalf("msgs[%d]=%q want %q", i, m.Content, want)
		}
	}
}

func TestHistoryDefaultCapacity(t *testing.T) {
	h := NewHistory(0)
	if h.Capacity() != DefaultCapacity {
		t.Fatalf("capacity=%d", h.Capacity())
	}
}

func TestHistoryMessagesIsCopy(t *testing.T) {
	h := NewHistory(4)
	h.Record(RoleAssistant, "a")
	msgs := h.Messages()
	msgs[0].Content = "mutated"
	if h.Messages()[0].Content != "a" {
		t.Fatalf("internal state mutated through returned slice")
	}
}
