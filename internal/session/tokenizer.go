package session

import (
	"sync"

	"mirai/internal/chat"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer token 计数器，tiktoken 不可用时回退到启发式
// Tokenizer counts tokens, falling back to a heuristic when tiktoken is unavailable
type Tokenizer struct {
	encoder  *tiktoken.Tiktoken
	fallback bool
	mu       sync.RWMutex
}

var (
	defaultTokenizer     *Tokenizer
	defaultTokenizerOnce sync.Once
)

// DefaultTokenizer 返回全局默认 tokenizer
// DefaultTokenizer returns the global default tokenizer
func DefaultTokenizer() *Tokenizer {
	defaultTokenizerOnce.Do(func() {
		defaultTokenizer = NewTokenizer("cl100k_base")
	})
	return defaultTokenizer
}

// NewTokenizer 创建 tokenizer；初始化失败则使用启发式
// NewTokenizer creates a tokenizer; init failure switches to the heuristic
func NewTokenizer(encodingName string) *Tokenizer {
	t := &Tokenizer{}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		// 离线环境可能没有 BPE 缓存 / Offline environments may lack the BPE cache
		t.fallback = true
		return t
	}
	t.encoder = enc
	return t
}

// Count 计算消息列表的总 token 数
// Count returns the total token count for a message list
func (t *Tokenizer) Count(messages []chat.Message) int {
	total := 0
	for _, msg := range messages {
		// 每条消息约 4 token 结构开销 / ~4 tokens structural overhead per message
		total += 4
		total += t.CountText(msg.Role)
		total += t.CountText(msg.Content)
	}
	return total
}

// CountText 计算单段文本的 token 数
// CountText counts tokens for a single text string
func (t *Tokenizer) CountText(text string) int {
	if text == "" {
		return 0
	}
	if t.fallback {
		return heuristicTokenCount(text)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.encoder.Encode(text, nil, nil))
}

// heuristicTokenCount CJK 约 1.5 token/字，ASCII 约 4 字符/token
// heuristicTokenCount: CJK ~1.5 tokens/char, ASCII ~4 chars/token
func heuristicTokenCount(text string) int {
	cjkCount := 0
	asciiCount := 0
	for _, r := range text {
		if isCJK(r) {
			cjkCount++
		} else {
			asciiCount++
		}
	}
	estimate := int(float64(cjkCount)*1.5 + float64(asciiCount)*0.25)
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x3000 && r <= 0x303F) ||
		(r >= 0xFF00 && r <= 0xFFEF) ||
		(r >= 0xAC00 && r <= 0xD7AF)
}
