package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"mirai/internal/config"
	"mirai/internal/orchestrator"
	"mirai/internal/provider"
	"mirai/internal/store"
)

type staticCompleter struct{ answer string }

func (s staticCompleter) Complete(context.Context, provider.CompletionRequest) (string, error) {
	return s.answer, nil
}

func newTestApp(t *testing.T, probe func() bool) App {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.BaseDir = t.TempDir()
	orch := orchestrator.New(orchestrator.Options{
		Config:    cfg,
		Completer: staticCompleter{answer: "hi"},
		Store:     store.New(cfg.Storage.BaseDir),
		Models:    []provider.Model{{ID: "a/one:free", Name: "One"}},
		Probe:     probe,
		Logger:    zerolog.Nop(),
	})
	app := NewApp(orch)
	app.width, app.height = 100, 30
	app.relayout()
	return app
}

func TestAppUpdate_ClockTick(t *testing.T) {
	app := newTestApp(t, nil)
	now := time.Date(2025, 3, 1, 9, 30, 15, 0, time.Local)

	m, cmd := app.Update(ClockTickMsg{Now: now})
	updated := m.(App)
	if updated.clock != "09:30:15" {
		t.Fatalf("clock = %q", updated.clock)
	}
	if cmd == nil {
		t.Fatal("clock tick must re-arm")
	}
}

func TestAppUpdate_TriggerTickDebounces(t *testing.T) {
	app := newTestApp(t, func() bool { return true })
	now := time.Now()

	m, _ := app.Update(TriggerTickMsg{Now: now})
	updated := m.(App)
	if updated.visible {
		t.Fatal("first press should hide the UI")
	}

	// 去抖窗口内的连续轮询不再切换
	m, _ = updated.Update(TriggerTickMsg{Now: now.Add(100 * time.Millisecond)})
	updated = m.(App)
	if updated.visible {
		t.Fatal("press inside the debounce window toggled again")
	}

	m, _ = updated.Update(TriggerTickMsg{Now: now.Add(800 * time.Millisecond)})
	updated = m.(App)
	if !updated.visible {
		t.Fatal("press after the debounce window should toggle back")
	}
}

func TestAppUpdate_SweepTickShowsReminder(t *testing.T) {
	app := newTestApp(t, nil)
	app.orch.AddTask("stretch", "2025-01-01T08:00")

	m, cmd := app.Update(SweepTickMsg{Now: time.Date(2025, 1, 1, 8, 0, 30, 0, time.Local)})
	updated := m.(App)
	if !strings.Contains(updated.chatContent, "Task due: stretch") {
		t.Fatalf("missing reminder in chat: %q", updated.chatContent)
	}
	if cmd == nil {
		t.Fatal("sweep tick must re-arm")
	}
}

func TestAppUpdate_AnswerMsg(t *testing.T) {
	app := newTestApp(t, nil)
	app.pending = 1

	m, _ := app.Update(AnswerMsg{Answer: orchestrator.Answer{Text: "Error: upstream down", OK: false}})
	updated := m.(App)
	if updated.pending != 0 {
		t.Fatalf("pending = %d", updated.pending)
	}
	if !strings.Contains(updated.chatContent, "Error: upstream down") {
		t.Fatalf("missing error text in chat: %q", updated.chatContent)
	}
	hist := updated.orch.Session().History()
	if len(hist) != 1 {
		t.Fatalf("history = %+v", hist)
	}
}

func TestAppUpdate_WeatherMsg(t *testing.T) {
	app := newTestApp(t, nil)
	m, _ := app.Update(WeatherMsg{Report: orchestrator.WeatherReport{Text: "Bhopal: +31°C Sunny"}})
	updated := m.(App)
	if updated.weather != "Bhopal: +31°C Sunny" {
		t.Fatalf("weather = %q", updated.weather)
	}
}

func TestAppUpdate_CtrlKTogglesVisibility(t *testing.T) {
	app := newTestApp(t, nil)
	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	updated := m.(App)
	if updated.visible {
		t.Fatal("ctrl+k should hide the UI")
	}
	m, _ = updated.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	updated = m.(App)
	if !updated.visible {
		t.Fatal("ctrl+k should show the UI again")
	}
}

func TestSubmitInputHandlesCommands(t *testing.T) {
	app := newTestApp(t, nil)
	app.input.SetValue("/task add water plants")
	cmd := app.submitInput()
	if cmd != nil {
		t.Fatal("command input must not dispatch a worker")
	}
	if tasks := app.orch.Tasks(); len(tasks) != 1 || tasks[0].Text != "water plants" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if app.input.Value() != "" {
		t.Fatal("input not cleared")
	}
}

func TestSubmitInputDispatchesQuestion(t *testing.T) {
	app := newTestApp(t, nil)
	app.input.SetValue("what is go")
	cmd := app.submitInput()
	if cmd == nil {
		t.Fatal("question should dispatch a worker")
	}
	if app.pending != 1 {
		t.Fatalf("pending = %d", app.pending)
	}
	if !strings.Contains(app.chatContent, "what is go") {
		t.Fatal("user message missing from chat")
	}

	// submitInput 把查询和 spinner tick 打包，需展开批处理找到回答
	// submitInput batches the query with the spinner tick, unwrap to
	// find the answer
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("msg = %T, want tea.BatchMsg", msg)
	}
	var ans AnswerMsg
	found := false
	for _, c := range batch {
		if a, ok := c().(AnswerMsg); ok {
			ans = a
			found = true
		}
	}
	if !found {
		t.Fatal("no answer produced by the batched commands")
	}
	if ans.Answer.Text != "hi" || !ans.Answer.OK {
		t.Fatalf("answer = %+v", ans.Answer)
	}
}
