package task

import "time"

// Sweep 把任务分为到期与未到期两组，保持插入顺序。
// 到期判定为 when <= now；无法解析的 when 视为永不到期，留在 pending 中。
// Sweep partitions tasks into due and pending in insertion order.
// Due means when <= now; an unparseable when is never due and stays pending.
func Sweep(tasks []Task, now time.Time) (due []Task, pending []Task) {
	pending = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		at, ok := ParseWhen(t.When)
		if ok && !at.After(now) {
			due = append(due, t)
			continue
		}
		pending = append(pending, t)
	}
	return due, pending
}
