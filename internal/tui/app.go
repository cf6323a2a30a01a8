package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mirai/internal/i18n"
	"mirai/internal/orchestrator"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// 三条节拍:时钟每秒、提醒扫描每分钟、触发键轮询 100ms。
// 每条节拍在 Update 中消费后重新武装,循环之间不会互相重入。
// Three cadences: the clock every second, the reminder sweep every minute,
// the trigger poll every 100ms. Each is re-armed after being consumed in
// Update, so a loop never overlaps itself.
const (
	clockInterval   = time.Second
	sweepInterval   = time.Minute
	triggerInterval = 100 * time.Millisecond
)

// --- Tea Messages ---

// ClockTickMsg 秒级时钟节拍 / ClockTickMsg is the per-second clock tick
type ClockTickMsg struct{ Now time.Time }

// SweepTickMsg 提醒扫描节拍 / SweepTickMsg is the reminder sweep tick
type SweepTickMsg struct{ Now time.Time }

// TriggerTickMsg 触发键轮询节拍 / TriggerTickMsg is the trigger poll tick
type TriggerTickMsg struct{ Now time.Time }

// AnswerMsg 补全结果送回循环 / AnswerMsg delivers a completion result
type AnswerMsg struct{ Answer orchestrator.Answer }

// WeatherMsg 天气结果送回循环 / WeatherMsg delivers a weather result
type WeatherMsg struct{ Report orchestrator.WeatherReport }

// App Bubble Tea 主 Model。它就是编排循环:所有共享状态的修改都发生
// 在 Update 中,工作协程只通过消息交回结果。
// App is the main Bubble Tea model. It is the orchestrating loop: all
// shared-state mutation happens inside Update; workers hand results back
// only through messages.
type App struct {
	orch *orchestrator.Orchestrator

	// 布局 / Layout
	width  int
	height int

	// 面板 / Panels
	chatView viewport.Model

	// 输入 / Input
	input   textarea.Model
	spinner spinner.Model

	// 小部件数据 / Widget data
	clock   string
	weather string

	// 内容缓冲;Model 按值复制,必须是可复制类型
	// Content buffer; the model is copied by value, so this must be a
	// copyable type
	chatContent string

	// 状态 / State
	visible bool
	pending int

	// 配置 / Config
	theme  Theme
	keys   KeyMap
	locale *i18n.I18n
}

// NewApp 创建 TUI 应用 / NewApp creates the TUI application
func NewApp(orch *orchestrator.Orchestrator) App {
	ta := textarea.New()
	ta.Placeholder = i18n.T("input.placeholder")
	ta.CharLimit = 8192
	ta.SetHeight(3)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return App{
		orch:    orch,
		input:   ta,
		spinner: sp,
		visible: true,
		clock:   time.Now().Format("15:04:05"),
		weather: i18n.T("widget.weather_pending"),
		theme:   DarkTheme(),
		keys:    DefaultKeyMap(),
		locale:  i18n.Global(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		clockTick(),
		sweepTick(),
		triggerTick(),
	)
}

func clockTick() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg { return ClockTickMsg{Now: t} })
}

func sweepTick() tea.Cmd {
	return tea.Tick(sweepInterval, func(t time.Time) tea.Msg { return SweepTickMsg{Now: t} })
}

func triggerTick() tea.Cmd {
	return tea.Tick(triggerInterval, func(t time.Time) tea.Msg { return TriggerTickMsg{Now: t} })
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+k":
			a.visible = !a.visible
			return a, nil
		case "enter":
			cmd := a.submitInput()
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		return a, nil

	case ClockTickMsg:
		a.clock = msg.Now.Format("15:04:05")
		cmds = append(cmds, clockTick())
		if a.orch.WeatherDue(msg.Now) {
			if job := a.orch.BuildWeatherJob(msg.Now); job != nil {
				cmds = append(cmds, runWeather(job))
			}
		}
		return a, tea.Batch(cmds...)

	case SweepTickMsg:
		for _, text := range a.orch.SweepReminders(msg.Now) {
			a.appendChat(a.theme.ReminderStyle.Render("🔔 " + text))
		}
		return a, sweepTick()

	case TriggerTickMsg:
		if a.orch.PollTrigger(msg.Now) {
			a.visible = !a.visible
		}
		return a, triggerTick()

	case AnswerMsg:
		a.pending--
		a.orch.HandleAnswer(msg.Answer)
		if msg.Answer.OK {
			a.appendChat(RenderMarkdown(msg.Answer.Text, a.chatWidth()))
		} else {
			a.appendChat(a.theme.ErrorStyle.Render(msg.Answer.Text))
		}
		if msg.Answer.SearchExhausted {
			a.appendChat(a.theme.MutedStyle.Render(a.locale.T("search.exhausted")))
		}
		return a, nil

	case WeatherMsg:
		a.orch.HandleWeather(msg.Report)
		a.weather = msg.Report.Text
		return a, nil

	case spinner.TickMsg:
		// 只在有进行中的请求时保持转动 / Spins only while a request is in flight
		if a.pending == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// submitInput 消费输入框内容:斜杠命令在循环上执行,普通输入构建
// 补全任务快照并派发到工作协程。
// submitInput consumes the input box: slash commands execute on the loop,
// plain input builds a completion job snapshot dispatched to a worker.
func (a *App) submitInput() tea.Cmd {
	text := strings.TrimSpace(a.input.Value())
	a.input.Reset()
	if text == "" {
		return nil
	}

	if res := a.orch.HandleCommand(text); res.Handled {
		if res.Quit {
			return tea.Quit
		}
		if res.Output != "" {
			a.appendChat(a.theme.MutedStyle.Render(res.Output))
		}
		return nil
	}

	job := a.orch.Submit(text)
	if job == nil {
		return nil
	}
	a.appendChat(a.theme.UserStyle.Render("👤 " + text))
	a.pending++
	return tea.Batch(runQuery(job), a.spinner.Tick)
}

// runQuery 在工作协程上运行任务快照;任务不触碰共享状态
// runQuery runs the job snapshot on a worker goroutine; the job touches
// no shared state
func runQuery(job *orchestrator.QueryJob) tea.Cmd {
	return func() tea.Msg {
		return AnswerMsg{Answer: job.Run(context.Background())}
	}
}

func runWeather(job *orchestrator.WeatherJob) tea.Cmd {
	return func() tea.Msg {
		return WeatherMsg{Report: job.Run(context.Background())}
	}
}

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}
	if !a.visible {
		return a.theme.MutedStyle.Render(" " + a.locale.T("status.hidden_hint"))
	}

	sidebarWidth := a.width * 30 / 100
	if sidebarWidth < 24 {
		sidebarWidth = 24
	}
	if sidebarWidth > 44 {
		sidebarWidth = 44
	}
	if a.width < 80 {
		sidebarWidth = 0
	}

	mainWidth := a.width - sidebarWidth
	if sidebarWidth > 0 {
		mainWidth--
	}

	headerHeight := 1
	inputHeight := 5
	statusHeight := 1
	panelHeight := a.height - headerHeight - inputHeight - statusHeight
	if panelHeight < 3 {
		panelHeight = 3
	}

	header := a.renderHeader(mainWidth)
	panel := lipgloss.NewStyle().Width(mainWidth).Height(panelHeight).Render(a.chatView.View())
	inputBox := a.theme.InputStyle.Width(mainWidth).Render(a.input.View())
	statusBar := a.renderStatusBar(a.width)

	main := lipgloss.JoinVertical(lipgloss.Left, header, panel, inputBox)
	if sidebarWidth > 0 {
		sidebar := a.renderSidebar(sidebarWidth, a.height-statusHeight)
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, sidebar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

// --- 内部方法 / Internal methods ---

func (a *App) chatWidth() int {
	if a.width == 0 {
		return 80
	}
	w := a.width * 70 / 100
	if w < 40 {
		w = 40
	}
	return w
}

func (a *App) relayout() {
	mainWidth := a.chatWidth()
	panelHeight := a.height - 8
	if panelHeight < 3 {
		panelHeight = 3
	}
	a.chatView = viewport.New(mainWidth, panelHeight)
	a.chatView.SetContent(a.chatContent)
	a.input.SetWidth(mainWidth - 4)
}

func (a *App) appendChat(text string) {
	a.chatContent += text + "\n"
	a.chatView.SetContent(a.chatContent)
	a.chatView.GotoBottom()
}

// --- 渲染方法 / Render methods ---

func (a App) renderHeader(width int) string {
	left := fmt.Sprintf(" 🕐 %s", a.clock)
	right := fmt.Sprintf("%s ", a.weather)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return a.theme.HeaderStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (a App) renderSidebar(width, height int) string {
	var parts []string

	parts = append(parts, a.theme.TitleStyle.Render(" MirAI"))
	parts = append(parts, "")

	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("panel.tasks")))
	tasks := a.orch.Tasks()
	if len(tasks) == 0 {
		parts = append(parts, a.theme.MutedStyle.Render("  "+a.locale.T("tasks.empty")))
	}
	for i, t := range tasks {
		line := fmt.Sprintf("  %d. %s", i+1, t.Text)
		if t.When != "" {
			line += a.theme.MutedStyle.Render("  @" + t.When)
		}
		parts = append(parts, line)
	}
	parts = append(parts, "")

	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("sidebar.model")))
	parts = append(parts, "  "+a.orch.Session().CurrentModel().Name)
	parts = append(parts, "")

	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("sidebar.search")))
	switch {
	case a.orch.SearchExhausted():
		parts = append(parts, a.theme.ErrorStyle.Render("  "+a.locale.T("search.exhausted")))
	case a.orch.SearchEnabled():
		parts = append(parts, "  "+a.locale.T("search.on"))
	default:
		parts = append(parts, a.theme.MutedStyle.Render("  "+a.locale.T("search.off")))
	}

	content := strings.Join(parts, "\n")
	return a.theme.SidebarStyle.Width(width).Height(height).Render(content)
}

func (a App) renderStatusBar(width int) string {
	status := a.locale.T("status.ready")
	if a.pending > 0 {
		status = a.spinner.View() + " " + a.locale.T("status.thinking")
	}

	sess := a.orch.Session()
	left := fmt.Sprintf(" %s · temp %.1f · %s", sess.CurrentModel().Name, sess.Temperature(), status)
	right := fmt.Sprintf("~%d tokens  ", sess.TokenEstimate())

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return a.theme.StatusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// Run 启动 Bubble Tea TUI / Run starts the Bubble Tea TUI
func Run(orch *orchestrator.Orchestrator) error {
	p := tea.NewProgram(NewApp(orch), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
