package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FallbackModels 目录拉取失败时的静态兜底
// FallbackModels is the static fallback when the catalog fetch fails
func FallbackModels() []Model {
	return []Model{
		{ID: "mistralai/mistral-7b-instruct:free", Name: "Mistral-7B"},
		{ID: "huggingfaceh4/zephyr-7b-beta:free", Name: "Zephyr-7B"},
	}
}

type catalogEntry struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Pricing map[string]any `json:"pricing"`
}

type catalogResponse struct {
	Data []catalogEntry `json:"data"`
}

// FetchFreeModels 拉取模型目录，保留免费模型，按展示名排序。
// 过滤条件：id 以 ":free" 结尾，或 pricing 所有字段均为零。
// 任何失败（网络、状态码、解析、空结果）都返回静态兜底。
// FetchFreeModels fetches the model catalog, keeps free models, and sorts
// them by display name. A model is free when its id ends in ":free" or all
// pricing fields are zero. Any failure yields the static fallback.
func FetchFreeModels(ctx context.Context, catalogURL string, timeoutMS int) []Model {
	timeout := 10 * time.Second
	if timeoutMS > 0 {
		timeout = time.Duration(timeoutMS) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, catalogURL, nil)
	if err != nil {
		return FallbackModels()
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return FallbackModels()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return FallbackModels()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return FallbackModels()
	}
	models, err := parseCatalog(body)
	if err != nil || len(models) == 0 {
		return FallbackModels()
	}
	return models
}

func parseCatalog(data []byte) ([]Model, error) {
	var parsed catalogResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	models := make([]Model, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		if strings.TrimSpace(entry.ID) == "" {
			continue
		}
		if !isFree(entry) {
			continue
		}
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = entry.ID
		}
		models = append(models, Model{ID: entry.ID, Name: name})
	}

	sort.SliceStable(models, func(i, j int) bool {
		return strings.ToLower(models[i].Name) < strings.ToLower(models[j].Name)
	})
	return models, nil
}

func isFree(entry catalogEntry) bool {
	if strings.HasSuffix(entry.ID, ":free") {
		return true
	}
	// 没有任何报价字段的条目视为免费 / no pricing fields at all counts as free
	for _, v := range entry.Pricing {
		if !isZeroPrice(v) {
			return false
		}
	}
	return true
}

// isZeroPrice 价格字段可能是字符串或数字；空值按零处理
// isZeroPrice handles string or numeric pricing fields; empty counts as zero
func isZeroPrice(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case float64:
		return val == 0
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		return f == 0
	default:
		return false
	}
}
