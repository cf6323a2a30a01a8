// Package provider 封装补全端点与模型目录
// Package provider wraps the completion endpoint and the model catalog.
package provider

import "context"

// Model 模型描述符：id + 展示名
// Model is a model descriptor: id plus display name
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CompletionRequest 一次无状态的单轮补全请求
// CompletionRequest is a single stateless completion turn
type CompletionRequest struct {
	ModelID     string
	Prompt      string
	Temperature float64
}

// Completer 补全端点接口
// Completer is the completion endpoint interface
type Completer interface {
	// Complete 发送单轮请求并返回去除首尾空白的回答文本
	// Complete sends one turn and returns the trimmed answer text
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
