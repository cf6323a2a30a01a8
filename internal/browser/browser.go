// Package browser 负责把 URL 交给外部浏览器打开
// Package browser hands URLs off to an external browser process.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher 浏览器启动器；优先使用配置的浏览器，失败时回退系统默认
// Launcher opens URLs, preferring the configured browser and falling back
// to the OS default handler on launch failure
type Launcher struct {
	preferredPath string
	// startCommand 可注入以便测试 / startCommand is injectable for tests
	startCommand func(name string, args ...string) error
}

// NewLauncher 创建启动器 / NewLauncher creates a launcher
func NewLauncher(preferredPath string) *Launcher {
	return &Launcher{
		preferredPath: strings.TrimSpace(preferredPath),
		startCommand: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Open 打开 URL；优先浏览器失败后回退到系统默认处理器
// Open opens a URL; falls back to the OS default handler when the
// preferred browser fails to launch
func (l *Launcher) Open(target string) error {
	if strings.TrimSpace(target) == "" {
		return fmt.Errorf("url is empty")
	}
	if l.preferredPath != "" {
		if err := l.startCommand(l.preferredPath, target); err == nil {
			return nil
		}
	}
	return l.openDefault(target)
}

func (l *Launcher) openDefault(target string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
		args = []string{target}
	case "windows":
		name = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", target}
	default:
		name = "xdg-open"
		args = []string{target}
	}
	if err := l.startCommand(name, args...); err != nil {
		return fmt.Errorf("open default browser: %w", err)
	}
	return nil
}

// YouTubeSearchURL 构造 YouTube 搜索结果页 URL
// YouTubeSearchURL builds a YouTube search results URL
func YouTubeSearchURL(query string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
}
