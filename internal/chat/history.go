package chat

// History 固定容量的对话历史，满时淘汰最旧的消息
// History is a fixed-capacity conversation history with FIFO eviction
type History struct {
	capacity int
	messages []Message
}

// DefaultCapacity 默认历史容量
// DefaultCapacity is the default history capacity
const DefaultCapacity = 8

// NewHistory 创建历史缓冲；capacity <= 0 时使用默认容量
// NewHistory creates a history buffer; capacity <= 0 uses the default
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		capacity: capacity,
		messages: make([]Message, 0, capacity),
	}
}

// Record 追加一条消息，容量满时丢弃最旧的一条
// Record appends a message, evicting the oldest entry at capacity
func (h *History) Record(role, content string) {
	if len(h.messages) == h.capacity {
		copy(h.messages, h.messages[1:])
		h.messages = h.messages[:h.capacity-1]
	}
	h.messages = append(h.messages, Message{Role: role, Content: content})
}

// Messages 返回当前历史的副本（从旧到新）
// Messages returns a copy of the current history, oldest first
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len 当前消息数 / Len returns the current message count
func (h *History) Len() int {
	return len(h.messages)
}

// Capacity 容量上限 / Capacity returns the capacity bound
func (h *History) Capacity() int {
	return h.capacity
}
