// Package store 负责 settings / tasks 两份 JSON 文档的落盘与读取。
// 读取软失败：文件缺失、不可读或内容损坏时返回空默认值，调用方永远不会因持久化错误被阻塞。
// Package store persists the settings and tasks JSON documents.
// Loads fail soft: a missing, unreadable, or corrupt file yields an empty
// default so callers are never blocked by persistence errors.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mirai/internal/task"
)

const (
	settingsFile = "settings.json"
	tasksFile    = "tasks.json"
)

// Store 无状态的编解码 + 文件 IO 边界；内存状态归 orchestrator 所有
// Store is a stateless codec + file I/O boundary; live state belongs to the orchestrator
type Store struct {
	settingsPath string
	tasksPath    string
}

// New 创建指向 baseDir 的存储
// New creates a store rooted at baseDir
func New(baseDir string) *Store {
	return &Store{
		settingsPath: filepath.Join(baseDir, settingsFile),
		tasksPath:    filepath.Join(baseDir, tasksFile),
	}
}

// SettingsPath 返回 settings 文件路径 / SettingsPath returns the settings file path
func (s *Store) SettingsPath() string { return s.settingsPath }

// TasksPath 返回 tasks 文件路径 / TasksPath returns the tasks file path
func (s *Store) TasksPath() string { return s.tasksPath }

// LoadSettings 读取设置；任何失败都返回空映射。
// 未知键原样保留，保证向前兼容的读写往返。
// LoadSettings reads settings; any failure yields an empty map.
// Unknown keys survive round-trips for forward compatibility.
func (s *Store) LoadSettings() map[string]any {
	data, err := os.ReadFile(s.settingsPath)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// SaveSettings 全量重写设置文件
// SaveSettings rewrites the whole settings document
func (s *Store) SaveSettings(settings map[string]any) error {
	if settings == nil {
		settings = map[string]any{}
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := atomicWriteFile(s.settingsPath, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// LoadTasks 读取任务列表；缺字段的条目在加载时丢弃而不是修复。
// LoadTasks reads the task list; entries missing required fields are
// dropped at load time, not repaired.
func (s *Store) LoadTasks() []task.Task {
	data, err := os.ReadFile(s.tasksPath)
	if err != nil {
		return nil
	}
	var raw []task.Task
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return task.FilterValid(raw)
}

// SaveTasks 全量重写任务文件
// SaveTasks rewrites the whole tasks document
func (s *Store) SaveTasks(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := atomicWriteFile(s.tasksPath, data, 0o644); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}
