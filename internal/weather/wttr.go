// Package weather 拉取固定城市的简短天气串
// Package weather fetches a short weather string for a fixed city.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Unavailable 天气不可用的哨兵值
// Unavailable is the sentinel shown when weather cannot be fetched
const Unavailable = "Weather Unavailable"

// Client wttr.in 风格的天气客户端 / Client is a wttr.in-style weather client
type Client struct {
	endpoint   string
	city       string
	httpClient *http.Client
}

// Config 客户端配置 / Config configures the client
type Config struct {
	Endpoint  string
	City      string
	TimeoutMS int
}

// NewClient 创建天气客户端 / NewClient creates a weather client
func NewClient(cfg Config) *Client {
	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &Client{
		endpoint:   strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		city:       strings.TrimSpace(cfg.City),
		httpClient: httpClient,
	}
}

// City 返回配置的城市 / City returns the configured city
func (c *Client) City() string { return c.city }

// Fetch 返回格式化的天气串；任何非 200 或传输失败都返回 Unavailable 哨兵。
// Fetch returns the formatted weather string; any non-200 or transport
// failure yields the Unavailable sentinel.
func (c *Client) Fetch(ctx context.Context) string {
	target := fmt.Sprintf("%s/%s?format=%s", c.endpoint, url.PathEscape(c.city), url.QueryEscape("%t %C"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Unavailable
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Unavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Unavailable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return Unavailable
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return Unavailable
	}
	return fmt.Sprintf("%s: %s", c.city, text)
}
