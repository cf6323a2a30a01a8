// Package storage 提供基于 SQLite 的活动日志：已触发的提醒与外部请求结果。
// 只追加，读路径仅供 /history 展示；任何失败都不应阻塞编排循环。
// Package storage provides a SQLite-backed activity log: fired reminders
// and external request outcomes. Append-only; reads serve /history. No
// failure here may block the orchestrating loop.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ReminderRecord 一条已触发的提醒 / ReminderRecord is one fired reminder
type ReminderRecord struct {
	Text    string
	FiredAt string
}

// RequestRecord 一次外部请求的结果
// RequestRecord is the outcome of one external request
type RequestRecord struct {
	Kind       string // completion | search | weather
	OK         bool
	Detail     string
	DurationMS int64
	CreatedAt  string
}

// ActivityLog 基于 SQLite (WAL 模式) 的活动日志
// ActivityLog is the SQLite (WAL mode) activity log
type ActivityLog struct {
	db   *sql.DB
	path string
}

// OpenActivityLog 创建并初始化数据库
// OpenActivityLog creates and initializes the database
func OpenActivityLog(dbPath string) (*ActivityLog, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("activity log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// 启用 WAL 模式和优化 PRAGMA / Enable WAL and performance PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	log := &ActivityLog{db: db, path: dbPath}
	if err := log.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return log, nil
}

func (l *ActivityLog) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reminders (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		text     TEXT NOT NULL,
		fired_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS requests (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		kind        TEXT NOT NULL,
		ok          INTEGER NOT NULL DEFAULT 0,
		detail      TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reminders_fired ON reminders(fired_at);
	CREATE INDEX IF NOT EXISTS idx_requests_created ON requests(created_at);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Close 关闭数据库连接 / Close the database connection
func (l *ActivityLog) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// LogReminder 记录一条已触发的提醒
// LogReminder records a fired reminder
func (l *ActivityLog) LogReminder(text string) error {
	_, err := l.db.Exec(`INSERT INTO reminders (text, fired_at) VALUES (?, ?)`, text, nowUTC())
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

// LogRequest 记录一次外部请求的结果
// LogRequest records one external request outcome
func (l *ActivityLog) LogRequest(rec RequestRecord) error {
	if strings.TrimSpace(rec.CreatedAt) == "" {
		rec.CreatedAt = nowUTC()
	}
	_, err := l.db.Exec(`
		INSERT INTO requests (kind, ok, detail, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.Kind, boolToInt(rec.OK), rec.Detail, rec.DurationMS, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// RecentReminders 返回最近 n 条已触发的提醒（新在前）
// RecentReminders returns the latest n fired reminders, newest first
func (l *ActivityLog) RecentReminders(n int) ([]ReminderRecord, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := l.db.Query(`SELECT text, fired_at FROM reminders ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var out []ReminderRecord
	for rows.Next() {
		var rec ReminderRecord
		if err := rows.Scan(&rec.Text, &rec.FiredAt); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecentRequests 返回最近 n 条请求记录（新在前）
// RecentRequests returns the latest n request records, newest first
func (l *ActivityLog) RecentRequests(n int) ([]RequestRecord, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := l.db.Query(`
		SELECT kind, ok, detail, duration_ms, created_at
		FROM requests ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var out []RequestRecord
	for rows.Next() {
		var rec RequestRecord
		var ok int
		if err := rows.Scan(&rec.Kind, &ok, &rec.Detail, &rec.DurationMS, &rec.CreatedAt); err != nil {
			continue
		}
		rec.OK = ok != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
