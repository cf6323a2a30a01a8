package task

import (
	"testing"
	"time"
)

func TestSweepPartition(t *testing.T) {
	now, _ := ParseWhen("2025-01-01T10:00:01")
	tasks := []Task{
		{Text: "past", When: "2025-01-01T09:59:00"},
		{Text: "future", When: "2025-01-01T11:00:00"},
		{Text: "exact", When: "2025-01-01T10:00:01"},
	}

	due, pending := Sweep(tasks, now)
	if len(due) != 2 {
		t.Fatalf("due=%v", due)
	}
	if due[0].Text != "past" || due[1].Text != "exact" {
		t.Fatalf("due order: %v", due)
	}
	if len(pending) != 1 || pending[0].Text != "future" {
		t.Fatalf("pending=%v", pending)
	}
}

func TestSweepUnparseableStaysPending(t *testing.T) {
	now := time.Now()
	tasks := []Task{
		{Text: "broken", When: "not-a-time"},
		{Text: "due", When: now.Add(-time.Minute).Format("2006-01-02T15:04:05")},
	}
	due, pending := Sweep(tasks, now)
	if len(due) != 1 || due[0].Text != "due" {
		t.Fatalf("due=%v", due)
	}
	if len(pending) != 1 || pending[0].Text != "broken" {
		t.Fatalf("pending=%v", pending)
	}
}

func TestSweepCallMomScenario(t *testing.T) {
	now, _ := ParseWhen("2025-01-01T10:00:01")
	tasks := []Task{{Text: "Call mom", When: "2025-01-01T10:00:00"}}
	due, pending := Sweep(tasks, now)
	if len(due) != 1 || due[0].Text != "Call mom" {
		t.Fatalf("due=%v", due)
	}
	if len(pending) != 0 {
		t.Fatalf("pending=%v", pending)
	}
}

func TestParseWhenLayouts(t *testing.T) {
	for _, s := range []string{
		"2025-01-01T10:00:00",
		"2025-01-01T10:00",
		"2025-01-01T10:00:00+05:30",
	} {
		if _, ok := ParseWhen(s); !ok {
			t.Fatalf("ParseWhen(%q) failed", s)
		}
	}
	if _, ok := ParseWhen(""); ok {
		t.Fatalf("empty when should not parse")
	}
}

func TestFilterValid(t *testing.T) {
	tasks := []Task{
		{Text: "ok", When: "2025-01-01T10:00:00"},
		{Text: "", When: "2025-01-01T10:00:00"},
		{Text: "no-when", When: ""},
	}
	got := FilterValid(tasks)
	if len(got) != 2 {
		t.Fatalf("got=%v", got)
	}
	// 没有到期时间的任务保留，只丢掉无文本的
	// tasks without a due time are kept, only text-less entries go
	if got[0].Text != "ok" || got[1].Text != "no-when" {
		t.Fatalf("got=%v", got)
	}
}
