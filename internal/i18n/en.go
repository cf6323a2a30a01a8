package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// UI - Panel titles
	"panel.chat":  "Chat",
	"panel.tasks": "Tasks",

	// UI - Sidebar
	"sidebar.model":  "Model",
	"sidebar.search": "Search",

	// UI - Widgets
	"widget.weather_pending": "Fetching weather...",

	// UI - Tasks
	"tasks.empty": "No tasks yet",

	// UI - Search states
	"search.on":        "on",
	"search.off":       "off",
	"search.exhausted": "disabled (quota exhausted)",

	// UI - Status bar
	"status.ready":       "Ready",
	"status.thinking":    "Thinking...",
	"status.hidden_hint": "hidden · press ctrl+k to show",

	// UI - Input
	"input.placeholder": "Ask anything, or type / for commands...",

	// Reminders
	"reminder.due": "Task due: %s",

	// Errors
	"error.provider": "Provider error: %s",
	"error.search":   "Search error: %s",
	"error.browser":  "Could not open the browser: %s",

	// Model
	"model.current":  "Current model: %s",
	"model.switched": "Model switched to: %s",

	// REPL
	"repl.welcome": "MirAI ready. Type /help for commands, /quit to exit.",
	"repl.goodbye": "Bye.",
}
