// Package search 通过 Serper 风格的接口拉取即时搜索上下文
// Package search fetches live search context through a Serper-style API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrQuotaExhausted 配额耗尽（HTTP 429）。调用方收到后应在进程生命周期内
// 停用搜索，不做重试。
// ErrQuotaExhausted signals HTTP 429. The caller must treat it as a sticky
// process-lifetime disable; there is no retry or backoff.
var ErrQuotaExhausted = errors.New("search quota exhausted")

// Client Serper 搜索客户端 / Client is the Serper search client
type Client struct {
	endpoint   string
	apiKey     string
	numResults int
	httpClient *http.Client
}

// Config 客户端配置 / Config configures the client
type Config struct {
	Endpoint   string
	APIKey     string
	NumResults int
	TimeoutMS  int
}

// NewClient 创建搜索客户端 / NewClient creates a search client
func NewClient(cfg Config) *Client {
	num := cfg.NumResults
	if num <= 0 {
		num = 3
	}
	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &Client{
		endpoint:   strings.TrimSpace(cfg.Endpoint),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		numResults: num,
		httpClient: httpClient,
	}
}

// Available 是否配置了 API key / Available reports whether an API key is configured
func (c *Client) Available() bool {
	return c.apiKey != ""
}

type serperResponse struct {
	AnswerBox struct {
		Answer string `json:"answer"`
	} `json:"answerBox"`
	KnowledgeGraph struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"knowledgeGraph"`
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search 执行查询并返回浓缩的上下文块。
// 依次拼接：answer box 一句、knowledge graph 一句、至多 N 条 organic
// 标题/摘要。没有任何可提取片段时返回空串。
// Search runs a query and returns a condensed context block: one answer-box
// sentence, one knowledge-graph sentence, then up to N organic
// title/snippet pairs, in that order. Zero extractable snippets yields "".
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(map[string]any{"q": query, "num": c.numResults})
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrQuotaExhausted
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return c.condense(parsed), nil
}

func (c *Client) condense(parsed serperResponse) string {
	var snippets []string
	if s := strings.TrimSpace(parsed.AnswerBox.Answer); s != "" {
		snippets = append(snippets, "AnswerBox: "+s)
	}
	if s := strings.TrimSpace(parsed.KnowledgeGraph.Title); s != "" {
		line := "KnowledgeGraph: " + s
		if d := strings.TrimSpace(parsed.KnowledgeGraph.Description); d != "" {
			line += " - " + d
		}
		snippets = append(snippets, line)
	}
	organic := parsed.Organic
	if len(organic) > c.numResults {
		organic = organic[:c.numResults]
	}
	for _, res := range organic {
		title := strings.TrimSpace(res.Title)
		snippet := strings.TrimSpace(res.Snippet)
		if title == "" && snippet == "" {
			continue
		}
		snippets = append(snippets, fmt.Sprintf("%q - %s", title, snippet))
	}
	if len(snippets) == 0 {
		return ""
	}
	return "Recent Web Results:\n" + strings.Join(snippets, "\n")
}
