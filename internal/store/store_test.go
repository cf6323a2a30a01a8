package store

import (
	"os"
	"path/filepath"
	"testing"

	"mirai/internal/task"
)

func TestTasksRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	tasks := []task.Task{
		{Text: "one", When: "2025-01-01T10:00:00"},
		{Text: "two", When: "2025-06-01T08:30:00"},
	}
	if err := s.SaveTasks(tasks); err != nil {
		t.Fatal(err)
	}
	got := s.LoadTasks()
	if len(got) != 2 || got[0] != tasks[0] || got[1] != tasks[1] {
		t.Fatalf("got=%v", got)
	}
	// 再保存再读取应保持稳定 / Save-then-load again must be stable
	if err := s.SaveTasks(got); err != nil {
		t.Fatal(err)
	}
	again := s.LoadTasks()
	if len(again) != 2 || again[0] != tasks[0] {
		t.Fatalf("again=%v", again)
	}
}

func TestLoadTasksDropsMalformed(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	raw := `[
  {"text": "good", "when": "2025-01-01T10:00:00"},
  {"text": "no when"},
  {"when": "2025-01-01T10:00:00"},
  {}
]`
	if err := os.WriteFile(s.TasksPath(), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	// 无文本的条目被丢弃；没有到期时间的任务必须保留
	// text-less entries are dropped; a task without a due time survives
	got := s.LoadTasks()
	if len(got) != 2 || got[0].Text != "good" || got[1].Text != "no when" {
		t.Fatalf("got=%v", got)
	}
	if err := s.SaveTasks(got); err != nil {
		t.Fatal(err)
	}
	if len(s.LoadTasks()) != 2 {
		t.Fatalf("expected 2 tasks after rewrite")
	}
}

func TestNoDeadlineTaskSurvivesReload(t *testing.T) {
	s := New(t.TempDir())
	tasks := []task.Task{{Text: "water plants", When: ""}}
	if err := s.SaveTasks(tasks); err != nil {
		t.Fatal(err)
	}
	got := s.LoadTasks()
	if len(got) != 1 || got[0].Text != "water plants" {
		t.Fatalf("got=%v", got)
	}
}

func TestLoadMissingFileYieldsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nonexistent"))
	if got := s.LoadTasks(); len(got) != 0 {
		t.Fatalf("tasks=%v", got)
	}
	if got := s.LoadSettings(); len(got) != 0 {
		t.Fatalf("settings=%v", got)
	}
}

func TestLoadCorruptFileYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := os.WriteFile(s.TasksPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.SettingsPath(), []byte("]["), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := s.LoadTasks(); len(got) != 0 {
		t.Fatalf("tasks=%v", got)
	}
	if got := s.LoadSettings(); len(got) != 0 {
		t.Fatalf("settings=%v", got)
	}
}

func TestSettingsUnknownKeysPreserved(t *testing.T) {
	s := New(t.TempDir())
	settings := map[string]any{
		"model_index": float64(2),
		"future_key":  "keep-me",
	}
	if err := s.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	got := s.LoadSettings()
	if got["future_key"] != "keep-me" {
		t.Fatalf("unknown key lost: %v", got)
	}
	if got["model_index"] != float64(2) {
		t.Fatalf("model_index=%v", got["model_index"])
	}
}

func TestSaveCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "nested")
	s := New(dir)
	if err := s.SaveSettings(map[string]any{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	if s.LoadSettings()["k"] != "v" {
		t.Fatalf("settings not persisted")
	}
}
