// Package i18n 提供界面文案的双语目录：英文为基线，中文逐键覆盖。
// Package i18n holds the bilingual UI message catalogs. English is the
// baseline; the Chinese catalog overrides per key.
package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// I18n 按 locale 解析文案键；实例创建后只读
// I18n resolves message keys for one locale. Instances are read-only
// after creation.
type I18n struct {
	locale  string
	overlay map[string]string
}

var (
	global     *I18n
	globalOnce sync.Once
)

// Global 返回全局实例，首次调用时按环境变量检测 locale
// Global returns the process-wide instance, detecting the locale from
// the environment on first use
func Global() *I18n {
	globalOnce.Do(func() {
		global = New("")
	})
	return global
}

// Init 用指定 locale 重建全局实例
// Init rebuilds the global instance for the given locale
func Init(locale string) {
	global = New(locale)
}

// T 全局翻译快捷函数
// T is a global translation shortcut
func T(key string, args ...any) string {
	return Global().T(key, args...)
}

// New 创建 i18n 实例；locale 为空时从环境变量检测
// New creates an instance; an empty locale is detected from the
// environment
func New(locale string) *I18n {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DetectLocale()
	}
	locale = normalizeLocale(locale)

	i := &I18n{locale: locale}
	if locale == "zh-CN" {
		i.overlay = ZhCNMessages
	}
	return i
}

// T 查找文案：先覆盖目录，再英文基线，最后原样返回键
// T looks up a key: overlay first, English baseline next, the key
// itself as a last resort
func (i *I18n) T(key string, args ...any) string {
	tmpl, ok := i.overlay[key]
	if !ok {
		tmpl, ok = EnMessages[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Locale 返回当前 locale
// Locale returns the current locale
func (i *I18n) Locale() string {
	return i.locale
}

// DetectLocale 依次读取 MIRAI_LANG、LANG、LC_ALL、LC_MESSAGES
// DetectLocale reads MIRAI_LANG, LANG, LC_ALL and LC_MESSAGES in order
func DetectLocale() string {
	for _, env := range []string{"MIRAI_LANG", "LANG", "LC_ALL", "LC_MESSAGES"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return normalizeLocale(v)
		}
	}
	return "en"
}

// normalizeLocale 只区分中文与其他；应用只带 en 和 zh-CN 两套目录
// normalizeLocale distinguishes Chinese from everything else since the
// app ships exactly the en and zh-CN catalogs
func normalizeLocale(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	if strings.HasPrefix(s, "zh") {
		return "zh-CN"
	}
	return "en"
}
