// Package task 定义任务模型与提醒扫描
// Package task defines the task model and the reminder sweep.
package task

import (
	"strings"
	"time"
)

// Task 一条待办：文本 + 到期时间（ISO-8601 本地时间字符串）
// Task is a single todo entry: text plus due time (ISO-8601 local time string)
type Task struct {
	Text string `json:"text"`
	When string `json:"when"`
}

// whenLayouts 按顺序尝试的时间格式
// whenLayouts are the accepted time layouts, tried in order
var whenLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseWhen 解析到期时间；无法解析时返回 ok=false
// ParseWhen parses the due time; ok=false when unparseable
func ParseWhen(when string) (time.Time, bool) {
	s := strings.TrimSpace(when)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Valid 判断任务是否带有必需的文本；到期时间可以为空（视为永不到期）
// Valid reports whether the task carries the required text. The due
// time may be empty or unparseable; such tasks never come due but are
// kept.
func (t Task) Valid() bool {
	return strings.TrimSpace(t.Text) != ""
}

// FilterValid 丢弃没有文本的条目，保持原有顺序
// FilterValid drops entries without text, preserving order
func FilterValid(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Valid() {
			out = append(out, t)
		}
	}
	return out
}
