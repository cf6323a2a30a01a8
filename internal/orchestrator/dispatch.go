package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mirai/internal/chat"
	"mirai/internal/provider"
	"mirai/internal/search"
	"mirai/internal/storage"
	"mirai/internal/weather"
)

// QueryJob 一次补全请求的不可变快照,在工作协程上运行。
// 不持有任何共享状态:模型、温度与搜索开关在构建时(编排循环上)固定。
// QueryJob is an immutable snapshot of one completion request, run on a
// worker goroutine. It holds no shared state: model, temperature, and the
// search toggle are fixed at build time on the orchestrating loop.
type QueryJob struct {
	Text        string
	ModelID     string
	Temperature float64
	UseSearch   bool

	completer provider.Completer
	searcher  *search.Client
	timeout   time.Duration
}

// Answer 补全结果;Text 永远可展示,错误已在边界处转成文本
// Answer is the completion result; Text is always displayable, errors are
// converted to text at the boundary
type Answer struct {
	Text            string
	OK              bool
	SearchExhausted bool
	DurationMS      int64
}

// WeatherReport 天气结果 / WeatherReport is a weather result
type WeatherReport struct {
	Text       string
	DurationMS int64
}

// Submit 接收用户输入并构建补全任务。空输入是 no-op(返回 nil)。
// 用户消息先记入历史;并发提交不去重,后到的结果后展示。
// Submit accepts user input and builds a completion job. Empty input is a
// no-op (returns nil). The user turn is recorded first; concurrent submits
// are not deduplicated, last delivered wins.
func (o *Orchestrator) Submit(text string) *QueryJob {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	o.session.Record(chat.RoleUser, text)

	return &QueryJob{
		Text:        text,
		ModelID:     o.session.CurrentModel().ID,
		Temperature: o.session.Temperature(),
		UseSearch:   o.SearchEnabled(),
		completer:   o.completer,
		searcher:    o.searcher,
		timeout:     time.Duration(o.cfg.Provider.TimeoutMS) * time.Millisecond,
	}
}

// Run 执行任务:可选的搜索上下文 + 单轮补全。
// 历史不随请求发送,每轮都是无状态的(与观测到的原始行为一致)。
// Run executes the job: optional search context plus one stateless
// completion turn. The history is not sent with the request; every turn is
// stateless, matching the observed behavior.
func (j *QueryJob) Run(ctx context.Context) Answer {
	started := time.Now()
	timeout := j.timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var searchContext string
	exhausted := false
	if j.UseSearch && j.searcher != nil {
		result, err := j.searcher.Search(ctx, j.Text)
		switch {
		case errors.Is(err, search.ErrQuotaExhausted):
			exhausted = true
		case err != nil:
			// 搜索失败不阻塞回答,继续无上下文补全
			// A failed search never blocks the answer; continue without context
		default:
			searchContext = result
		}
	}

	prompt := j.Text
	if searchContext != "" {
		prompt = fmt.Sprintf("%s\n\n%s\n\nUsing ONLY the information above, answer clearly.", j.Text, searchContext)
	}

	answer, err := j.completer.Complete(ctx, provider.CompletionRequest{
		ModelID:     j.ModelID,
		Prompt:      prompt,
		Temperature: j.Temperature,
	})
	elapsed := time.Since(started).Milliseconds()
	if err != nil {
		// 错误作为可展示文本返回,永不向上抛出
		// Errors come back as displayable text, never propagated
		return Answer{
			Text:            "Error: " + err.Error(),
			OK:              false,
			SearchExhausted: exhausted,
			DurationMS:      elapsed,
		}
	}
	return Answer{
		Text:            answer,
		OK:              true,
		SearchExhausted: exhausted,
		DurationMS:      elapsed,
	}
}

// HandleAnswer 在编排循环上消费补全结果:记入历史,应用粘性搜索停用,
// 写活动日志。
// HandleAnswer consumes a completion result on the orchestrating loop:
// records the assistant turn, applies the sticky search disable, and
// writes the activity log.
func (o *Orchestrator) HandleAnswer(ans Answer) {
	o.session.Record(chat.RoleAssistant, ans.Text)
	if ans.SearchExhausted {
		o.searchExhausted = true
		o.log.Info().Msg("search disabled for the rest of the process (quota exhausted)")
	}
	if o.activity != nil {
		detail := "model=" + o.session.CurrentModel().ID
		if !ans.OK {
			detail = ans.Text
		}
		if err := o.activity.LogRequest(storage.RequestRecord{
			Kind:       "completion",
			OK:         ans.OK,
			Detail:     detail,
			DurationMS: ans.DurationMS,
		}); err != nil {
			o.log.Warn().Err(err).Msg("log request")
		}
	}
}

// WeatherJob 一次天气请求的快照 / WeatherJob snapshots one weather request
type WeatherJob struct {
	client  *weather.Client
	timeout time.Duration
}

// BuildWeatherJob 构建天气任务并记录尝试时间(无论结果如何都计入门控)。
// BuildWeatherJob builds a weather job and records the attempt timestamp;
// the gate counts attempts regardless of outcome.
func (o *Orchestrator) BuildWeatherJob(now time.Time) *WeatherJob {
	if o.weather == nil {
		return nil
	}
	o.lastWeatherAttempt = now
	return &WeatherJob{
		client:  o.weather,
		timeout: time.Duration(o.cfg.Weather.TimeoutMS) * time.Millisecond,
	}
}

// Run 执行天气请求;失败时返回 Unavailable 哨兵
// Run executes the weather request; failures yield the Unavailable sentinel
func (j *WeatherJob) Run(ctx context.Context) WeatherReport {
	started := time.Now()
	timeout := j.timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text := j.client.Fetch(ctx)
	return WeatherReport{
		Text:       text,
		DurationMS: time.Since(started).Milliseconds(),
	}
}

// HandleWeather 在编排循环上消费天气结果并写活动日志
// HandleWeather consumes a weather result on the loop and logs it
func (o *Orchestrator) HandleWeather(rep WeatherReport) {
	if o.activity == nil {
		return
	}
	if err := o.activity.LogRequest(storage.RequestRecord{
		Kind:       "weather",
		OK:         rep.Text != weather.Unavailable,
		Detail:     rep.Text,
		DurationMS: rep.DurationMS,
	}); err != nil {
		o.log.Warn().Err(err).Msg("log request")
	}
}
