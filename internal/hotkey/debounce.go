// Package hotkey 把高频轮询的原始按键信号去抖成单次切换事件。
// OS 级按键捕获不在本包范围内：调用方注入一个 Probe。
// Package hotkey debounces a high-frequency polled raw key signal into
// single toggle events. OS-level key capture is out of scope: callers
// inject a Probe.
package hotkey

import "time"

// Probe 返回激活组合键当前是否被按住
// Probe reports whether the activation key combo is currently held
type Probe func() bool

// NilProbe 永远返回未按下 / NilProbe never reports pressed
func NilProbe() bool { return false }

// Debouncer 每次观测到按下时最多每 interval 发出一次切换。
// 长按只在按下沿触发一次，窗口过后再补发一次，之后保持静默直到松开。
// Debouncer emits at most one toggle per interval when the raw signal
// reads pressed. A continuous hold fires on the press edge, once more
// after the window elapses, then stays quiet until the keys are
// released.
type Debouncer struct {
	interval time.Duration
	last     time.Time
	held     bool
	refired  bool
}

// DefaultInterval 默认去抖窗口 / DefaultInterval is the default debounce window
const DefaultInterval = 700 * time.Millisecond

// NewDebouncer 创建去抖器；interval <= 0 时使用默认窗口
// NewDebouncer creates a debouncer; interval <= 0 uses the default window
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer{interval: interval}
}

// Observe 处理一次轮询结果；返回是否应发出切换事件
// Observe handles one poll sample; reports whether to emit a toggle
func (d *Debouncer) Observe(pressed bool, now time.Time) bool {
	if !pressed {
		d.held = false
		return false
	}
	rising := !d.held
	d.held = true
	if !d.last.IsZero() && now.Sub(d.last) < d.interval {
		return false
	}
	// 同一次长按最多补发一次 / at most one re-fire per continuous hold
	if !rising && d.refired {
		return false
	}
	d.refired = !rising
	d.last = now
	return true
}
