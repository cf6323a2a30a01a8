package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"mirai/internal/task"
)

// CommandResult 斜杠命令的执行结果。Handled 为 false 表示输入不是命令,
// 应作为普通提问提交。
// CommandResult is the outcome of a slash command. Handled false means the
// input is not a command and should be submitted as a normal question.
type CommandResult struct {
	Handled bool
	Quit    bool
	Output  string
}

func handled(output string) CommandResult {
	return CommandResult{Handled: true, Output: output}
}

// HandleCommand 解析并执行斜杠命令;在编排循环上调用。
// HandleCommand parses and executes a slash command; called on the
// orchestrating loop.
func (o *Orchestrator) HandleCommand(input string) CommandResult {
	parts := strings.Fields(input)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "/") {
		return CommandResult{}
	}
	cmd := parts[0]
	args := parts[1:]
	switch cmd {
	case "/exit", "/quit":
		return CommandResult{Handled: true, Quit: true}
	case "/help":
		return handled(commandHelp)
	case "/task":
		return o.commandTask(args)
	case "/model":
		return o.commandModel(args)
	case "/temp":
		return o.commandTemp(args)
	case "/search":
		return o.commandSearch(args)
	case "/play":
		return o.commandPlay(args)
	case "/history":
		return o.commandHistory()
	default:
		return handled(fmt.Sprintf("unknown command: %s (try /help)", cmd))
	}
}

const commandHelp = `commands:
  /task add <text> [@YYYY-MM-DDTHH:MM]   add a task, optionally with a due time
  /task del <n>                          delete task n (1-based)
  /task list                             list tasks
  /model [n]                             list models, or switch to model n (1-based)
  /temp <1-10>                           set creativity (maps to temperature 0.1-1.0)
  /search on|off                         toggle web search context
  /play <query>                          open a YouTube search in the browser
  /history                              show recent reminders and requests
  /help                                 show this help
  /quit                                 exit`

func (o *Orchestrator) commandTask(args []string) CommandResult {
	if len(args) == 0 {
		return handled("usage: /task add|del|list")
	}
	switch args[0] {
	case "add":
		text, when := splitTaskArgs(args[1:])
		if text == "" {
			return handled("usage: /task add <text> [@YYYY-MM-DDTHH:MM]")
		}
		if when != "" {
			if _, ok := task.ParseWhen(when); !ok {
				return handled(fmt.Sprintf("unrecognized due time: %s", when))
			}
		}
		o.AddTask(text, when)
		return handled(fmt.Sprintf("added task: %s", text))
	case "del":
		if len(args) < 2 {
			return handled("usage: /task del <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || !o.DeleteTask(n-1) {
			return handled("invalid task number")
		}
		return handled(fmt.Sprintf("deleted task %d", n))
	case "list":
		tasks := o.Tasks()
		if len(tasks) == 0 {
			return handled("no tasks")
		}
		var b strings.Builder
		for i, t := range tasks {
			if t.When != "" {
				fmt.Fprintf(&b, "%d. %s  @%s\n", i+1, t.Text, t.When)
			} else {
				fmt.Fprintf(&b, "%d. %s\n", i+1, t.Text)
			}
		}
		return handled(strings.TrimRight(b.String(), "\n"))
	default:
		return handled("usage: /task add|del|list")
	}
}

// splitTaskArgs 把尾部的 @时间 标记与任务文本分开
// splitTaskArgs separates a trailing @time marker from the task text
func splitTaskArgs(args []string) (text, when string) {
	if n := len(args); n > 0 && strings.HasPrefix(args[n-1], "@") {
		when = strings.TrimPrefix(args[n-1], "@")
		args = args[:n-1]
	}
	return strings.Join(args, " "), when
}

func (o *Orchestrator) commandModel(args []string) CommandResult {
	if len(args) == 0 {
		var b strings.Builder
		for i, m := range o.session.Models() {
			marker := "  "
			if i == o.session.ModelIndex() {
				marker = "* "
			}
			fmt.Fprintf(&b, "%s%d. %s\n", marker, i+1, m.Name)
		}
		return handled(strings.TrimRight(b.String(), "\n"))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || !o.SelectModel(n-1) {
		return handled("invalid model number")
	}
	return handled(fmt.Sprintf("model: %s", o.session.CurrentModel().Name))
}

func (o *Orchestrator) commandTemp(args []string) CommandResult {
	if len(args) == 0 {
		return handled(fmt.Sprintf("temperature: %.1f", o.session.Temperature()))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return handled("usage: /temp <1-10>")
	}
	o.SetCreativity(n)
	return handled(fmt.Sprintf("temperature: %.1f", o.session.Temperature()))
}

func (o *Orchestrator) commandSearch(args []string) CommandResult {
	if len(args) == 0 {
		if o.SearchEnabled() {
			return handled("search: on")
		}
		return handled("search: off")
	}
	switch args[0] {
	case "on":
		if o.searcher == nil || !o.searcher.Available() {
			return handled("search unavailable: no API key configured")
		}
		if o.searchExhausted {
			return handled("search disabled: quota exhausted")
		}
		o.ToggleSearch(true)
		return handled("search: on")
	case "off":
		o.ToggleSearch(false)
		return handled("search: off")
	default:
		return handled("usage: /search on|off")
	}
}

func (o *Orchestrator) commandPlay(args []string) CommandResult {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return handled("usage: /play <query>")
	}
	if !o.PlayMusic(query) {
		return handled("could not open the browser")
	}
	return handled(fmt.Sprintf("opening YouTube search for %q", query))
}

func (o *Orchestrator) commandHistory() CommandResult {
	if o.activity == nil {
		return handled("activity log disabled")
	}
	var b strings.Builder
	reminders, err := o.activity.RecentReminders(10)
	if err != nil {
		return handled(fmt.Sprintf("read activity log: %v", err))
	}
	requests, err := o.activity.RecentRequests(10)
	if err != nil {
		return handled(fmt.Sprintf("read activity log: %v", err))
	}
	b.WriteString("recent reminders:\n")
	if len(reminders) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, r := range reminders {
		fmt.Fprintf(&b, "  %s  %s\n", r.FiredAt, r.Text)
	}
	b.WriteString("recent requests:\n")
	if len(requests) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, r := range requests {
		status := "ok"
		if !r.OK {
			status = "failed"
		}
		fmt.Fprintf(&b, "  %s  %s  %s  %dms\n", r.CreatedAt, r.Kind, status, r.DurationMS)
	}
	return handled(strings.TrimRight(b.String(), "\n"))
}
