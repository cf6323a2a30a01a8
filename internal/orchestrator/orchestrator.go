// Package orchestrator 是后台编排核心:持有任务、设置与会话状态,
// 驱动提醒扫描、天气刷新门控与触发去抖,并把外部请求打包成可在
// 工作协程上运行的不可变任务。
//
// 共享状态只允许在单一编排循环(TUI 的 Update 或 REPL 的主循环)上
// 修改;工作协程只携带快照与客户端,通过结果消息把数据送回循环。
//
// Package orchestrator is the background orchestration core: it owns the
// task list, settings, and session state, drives the reminder sweep, the
// weather refresh gate, and trigger debouncing, and packages external
// requests into immutable jobs that run on worker goroutines.
//
// Shared state is mutated only on the single orchestrating loop (the TUI
// Update loop or the REPL main loop); workers carry snapshots and clients
// only, and deliver results back to the loop as messages.
package orchestrator

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mirai/internal/browser"
	"mirai/internal/chat"
	"mirai/internal/config"
	"mirai/internal/hotkey"
	"mirai/internal/provider"
	"mirai/internal/search"
	"mirai/internal/session"
	"mirai/internal/storage"
	"mirai/internal/store"
	"mirai/internal/task"
	"mirai/internal/weather"
)

// settingModelIndex settings 中持久化的模型下标键
// settingModelIndex is the persisted model index key in settings
const settingModelIndex = "model_index"

// Options 编排器依赖 / Options are the orchestrator dependencies
type Options struct {
	Config    config.Config
	Completer provider.Completer
	Searcher  *search.Client
	Weather   *weather.Client
	Store     *store.Store
	Activity  *storage.ActivityLog // 可为 nil / may be nil
	Launcher  *browser.Launcher
	Models    []provider.Model
	Probe     hotkey.Probe
	Logger    zerolog.Logger
}

// Orchestrator 共享状态的唯一持有者与修改者
// Orchestrator is the sole owner and mutator of shared state
type Orchestrator struct {
	cfg       config.Config
	completer provider.Completer
	searcher  *search.Client
	weather   *weather.Client
	store     *store.Store
	activity  *storage.ActivityLog
	launcher  *browser.Launcher
	log       zerolog.Logger

	session  *session.Session
	tasks    []task.Task
	settings map[string]any

	debouncer *hotkey.Debouncer
	probe     hotkey.Probe

	// searchWanted 用户开关;searchExhausted 429 后的粘性停用
	// searchWanted is the user toggle; searchExhausted is the sticky
	// disable after a 429
	searchWanted    bool
	searchExhausted bool

	lastWeatherAttempt time.Time
	weatherInterval    time.Duration
}

// New 创建编排器并从持久化状态恢复
// New creates the orchestrator and restores persisted state
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		cfg:             opts.Config,
		completer:       opts.Completer,
		searcher:        opts.Searcher,
		weather:         opts.Weather,
		store:           opts.Store,
		activity:        opts.Activity,
		launcher:        opts.Launcher,
		log:             opts.Logger,
		probe:           opts.Probe,
		debouncer:       hotkey.NewDebouncer(time.Duration(opts.Config.Trigger.DebounceMS) * time.Millisecond),
		weatherInterval: time.Duration(opts.Config.Weather.RefreshIntervalS) * time.Second,
	}
	if o.probe == nil {
		o.probe = hotkey.NilProbe
	}

	o.session = session.New(opts.Models, opts.Config.Chat.MaxMemory, opts.Config.Chat.Temperature)
	o.searchWanted = opts.Searcher != nil && opts.Searcher.Available()

	o.settings = map[string]any{}
	o.tasks = nil
	if o.store != nil {
		o.settings = o.store.LoadSettings()
		o.tasks = o.store.LoadTasks()
	}
	o.restoreModelIndex()
	return o
}

// restoreModelIndex 恢复持久化的模型选择;越界值夹到目录范围内
// restoreModelIndex restores the persisted model selection, clamping
// out-of-range values into the catalog
func (o *Orchestrator) restoreModelIndex() {
	raw, ok := o.settings[settingModelIndex]
	if !ok {
		return
	}
	idx := -1
	switch v := raw.(type) {
	case float64:
		idx = int(v)
	case int:
		idx = v
	}
	if idx < 0 {
		return
	}
	if idx >= len(o.session.Models()) {
		idx = len(o.session.Models()) - 1
	}
	o.session.SelectModel(idx)
}

// Session 返回会话状态 / Session returns the session state
func (o *Orchestrator) Session() *session.Session {
	return o.session
}

// Tasks 返回任务列表副本 / Tasks returns a copy of the task list
func (o *Orchestrator) Tasks() []task.Task {
	out := make([]task.Task, len(o.tasks))
	copy(out, o.tasks)
	return out
}

// SearchEnabled 搜索当前是否启用(用户开关且未被 429 停用)
// SearchEnabled reports whether search is live: user toggle on and not
// disabled by a 429
func (o *Orchestrator) SearchEnabled() bool {
	return o.searchWanted && !o.searchExhausted && o.searcher != nil && o.searcher.Available()
}

// SearchExhausted 搜索是否已被配额停用
// SearchExhausted reports the sticky quota disable
func (o *Orchestrator) SearchExhausted() bool {
	return o.searchExhausted
}

// ToggleSearch 设置用户搜索开关;配额停用后无法重新打开
// ToggleSearch sets the user search toggle; a quota disable cannot be
// re-enabled
func (o *Orchestrator) ToggleSearch(on bool) {
	o.searchWanted = on
}

// AddTask 追加任务并立即持久化;空文本是 no-op
// AddTask appends a task and persists immediately; empty text is a no-op
func (o *Orchestrator) AddTask(text, when string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	o.tasks = append(o.tasks, task.Task{Text: text, When: strings.TrimSpace(when)})
	o.persistTasks()
	return true
}

// DeleteTask 按下标删除任务并持久化;越界是 no-op
// DeleteTask removes a task by index and persists; out of range is a no-op
func (o *Orchestrator) DeleteTask(index int) bool {
	if index < 0 || index >= len(o.tasks) {
		return false
	}
	o.tasks = append(o.tasks[:index], o.tasks[index+1:]...)
	o.persistTasks()
	return true
}

// SweepReminders 扫描到期任务:按插入顺序返回提醒文本,从任务列表
// 移除已触发的条目,有触发时持久化。到期消息同时记入对话历史。
// SweepReminders scans for due tasks: returns reminder texts in insertion
// order, removes fired entries, persists when anything fired. Fired
// reminders are also recorded into the conversation history.
func (o *Orchestrator) SweepReminders(now time.Time) []string {
	due, pending := task.Sweep(o.tasks, now)
	if len(due) == 0 {
		return nil
	}
	o.tasks = pending
	o.persistTasks()

	texts := make([]string, 0, len(due))
	for _, t := range due {
		text := "Task due: " + t.Text
		texts = append(texts, text)
		o.session.Record(chat.RoleReminder, text)
		if o.activity != nil {
			if err := o.activity.LogReminder(t.Text); err != nil {
				o.log.Warn().Err(err).Msg("log reminder")
			}
		}
	}
	return texts
}

// SelectModel 切换模型并立即持久化 model_index
// SelectModel switches the model and persists model_index immediately
func (o *Orchestrator) SelectModel(index int) bool {
	if !o.session.SelectModel(index) {
		return false
	}
	o.settings[settingModelIndex] = index
	o.persistSettings()
	return true
}

// SetCreativity 按 [1,10] 的原始值设置温度
// SetCreativity sets temperature from a raw [1,10] value
func (o *Orchestrator) SetCreativity(raw int) {
	o.session.SetCreativity(raw)
}

// PollTrigger 处理一次激活键轮询;返回是否应切换可见性
// PollTrigger handles one activation-key poll; reports whether to toggle
// visibility
func (o *Orchestrator) PollTrigger(now time.Time) bool {
	return o.debouncer.Observe(o.probe(), now)
}

// WeatherDue 天气刷新门控:距上次记录的尝试 >= 刷新间隔才放行
// WeatherDue gates weather refresh: allowed only when the refresh interval
// has elapsed since the last recorded attempt
func (o *Orchestrator) WeatherDue(now time.Time) bool {
	if o.weather == nil {
		return false
	}
	return o.lastWeatherAttempt.IsZero() || now.Sub(o.lastWeatherAttempt) >= o.weatherInterval
}

// PlayMusic 打开 YouTube 搜索结果页;空查询是 no-op
// PlayMusic opens a YouTube results page; empty query is a no-op
func (o *Orchestrator) PlayMusic(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" || o.launcher == nil {
		return false
	}
	if err := o.launcher.Open(browser.YouTubeSearchURL(query)); err != nil {
		o.log.Warn().Err(err).Msg("open browser")
		return false
	}
	return true
}

func (o *Orchestrator) persistTasks() {
	if o.store == nil {
		return
	}
	// 保存失败只记日志,内存状态保持权威 / Save failures are logged;
	// in-memory state stays authoritative
	if err := o.store.SaveTasks(o.tasks); err != nil {
		o.log.Warn().Err(err).Msg("save tasks")
	}
}

func (o *Orchestrator) persistSettings() {
	if o.store == nil {
		return
	}
	if err := o.store.SaveSettings(o.settings); err != nil {
		o.log.Warn().Err(err).Msg("save settings")
	}
}
