package chat

// 消息角色 / Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleReminder  = "reminder"
)

// Message 一条对话消息
// Message is a single conversation message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
