// Package session 持有有界对话历史、当前模型选择与生成温度
// Package session holds the bounded conversation history, active model
// selection, and generation temperature.
package session

import (
	"mirai/internal/chat"
	"mirai/internal/provider"
)

const (
	// MinTemperature / MaxTemperature 温度的合法区间
	// MinTemperature / MaxTemperature bound the temperature range
	MinTemperature = 0.1
	MaxTemperature = 1.0
)

// Session 进程内会话状态；仅由编排循环访问
// Session is in-process session state, touched only by the orchestrating loop
type Session struct {
	history     *chat.History
	models      []provider.Model
	modelIndex  int
	temperature float64
}

// New 创建会话；models 启动后不再变化
// New creates a session; models are immutable after startup
func New(models []provider.Model, historyCapacity int, temperature float64) *Session {
	if len(models) == 0 {
		models = provider.FallbackModels()
	}
	if temperature < MinTemperature || temperature > MaxTemperature {
		temperature = 0.7
	}
	return &Session{
		history:     chat.NewHistory(historyCapacity),
		models:      models,
		temperature: temperature,
	}
}

// Record 追加一条消息到有界历史
// Record appends a message to the bounded history
func (s *Session) Record(role, content string) {
	s.history.Record(role, content)
}

// History 返回历史消息副本 / History returns a copy of the history
func (s *Session) History() []chat.Message {
	return s.history.Messages()
}

// Models 返回模型目录 / Models returns the model catalog
func (s *Session) Models() []provider.Model {
	return s.models
}

// CurrentModel 返回当前选中的模型
// CurrentModel returns the currently selected model
func (s *Session) CurrentModel() provider.Model {
	return s.models[s.modelIndex]
}

// ModelIndex 当前模型下标 / ModelIndex returns the current model index
func (s *Session) ModelIndex() int {
	return s.modelIndex
}

// SelectModel 按下标切换模型；越界是 no-op，返回是否生效
// SelectModel switches the model by index; out of range is a no-op.
// Reports whether the selection changed.
func (s *Session) SelectModel(index int) bool {
	if index < 0 || index >= len(s.models) {
		return false
	}
	s.modelIndex = index
	return true
}

// Temperature 当前温度 / Temperature returns the current temperature
func (s *Session) Temperature() float64 {
	return s.temperature
}

// SetCreativity 用 [1,10] 的原始控制值设置温度（7 → 0.7），
// 结果始终落在 [0.1, 1.0]、步长 0.1。
// SetCreativity sets the temperature from a raw control value in [1,10]
// (7 → 0.7); the result is clamped to [0.1, 1.0] in 0.1 steps.
func (s *Session) SetCreativity(raw int) {
	if raw < 1 {
		raw = 1
	}
	if raw > 10 {
		raw = 10
	}
	s.temperature = float64(raw) / 10.0
}

// TokenEstimate 估算当前历史占用的 token 数（状态栏展示用）
// TokenEstimate estimates tokens held by the history (shown in the status bar)
func (s *Session) TokenEstimate() int {
	return DefaultTokenizer().Count(s.history.Messages())
}
