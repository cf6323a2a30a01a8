package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// TUI - 面板标题
	"panel.chat":  "对话",
	"panel.tasks": "任务",

	// TUI - 侧边栏
	"sidebar.model":  "模型",
	"sidebar.search": "搜索",

	// TUI - 小部件
	"widget.weather_pending": "正在获取天气...",

	// TUI - 任务
	"tasks.empty": "暂无任务",

	// TUI - 搜索状态
	"search.on":        "开",
	"search.off":       "关",
	"search.exhausted": "已停用（配额耗尽）",

	// TUI - 状态栏
	"status.ready":       "就绪",
	"status.thinking":    "思考中...",
	"status.hidden_hint": "已隐藏 · 按 ctrl+k 显示",

	// TUI - 输入
	"input.placeholder": "随便问点什么，或输入 / 使用命令...",

	// 提醒
	"reminder.due": "任务到期: %s",

	// 错误
	"error.provider": "模型服务错误: %s",
	"error.search":   "搜索错误: %s",
	"error.browser":  "无法打开浏览器: %s",

	// 模型
	"model.current":  "当前模型: %s",
	"model.switched": "已切换模型: %s",

	// REPL
	"repl.welcome": "MirAI 已就绪。输入 /help 查看命令，/quit 退出。",
	"repl.goodbye": "再见。",
}
