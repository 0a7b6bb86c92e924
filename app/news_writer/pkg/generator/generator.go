// Package generator 调用 LLM 把 prompt 改写成文章。
//
// 单篇失败不会返回 error，而是返回 Text 为空、带失败原因的 Result，
// 由调用方决定是否把空字符串当作结果写出。
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/logger"
)

// Reason 生成失败的原因
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNetwork
	ReasonAPI
	ReasonMalformed
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNetwork:
		return "network"
	case ReasonAPI:
		return "api"
	case ReasonMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Result 单次生成的结果
type Result struct {
	Text   string
	Reason Reason
	Err    error
}

// OK 是否生成成功
func (r Result) OK() bool {
	return r.Reason == ReasonNone
}

// Generator 文章生成器
type Generator struct {
	cm          model.BaseChatModel
	temperature float32
	limiter     *rate.Limiter
}

// Option 生成器选项
type Option func(*Generator)

// WithLimiter 每次调用前等待限流令牌，nil 表示不限流
func WithLimiter(l *rate.Limiter) Option {
	return func(g *Generator) { g.limiter = l }
}

// New 创建生成器，temperature 随每次请求下发
func New(cm model.BaseChatModel, temperature float32, opts ...Option) *Generator {
	g := &Generator{cm: cm, temperature: temperature}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewLimiter 按 RPM/60 作为速率、QPS 作为突发量创建限流器；两者都为 0 时返回 nil
func NewLimiter(qps, rpm int) *rate.Limiter {
	if qps <= 0 && rpm <= 0 {
		return nil
	}
	limit := rate.Limit(float64(rpm) / 60.0)
	if rpm <= 0 {
		limit = rate.Limit(qps)
	}
	burst := qps
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}

// Generate 发送一条 user 消息并返回第一条回复去掉首尾空白后的内容
func (g *Generator) Generate(ctx context.Context, prompt string) (res Result) {
	defer func() {
		// 模型客户端 panic 也按失败处理，不中断后续文章
		if p := recover(); p != nil {
			res = fail(ReasonMalformed, fmt.Errorf("chat model panic: %v", p))
		}
	}()

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fail(ReasonNetwork, fmt.Errorf("limiter wait error: %w", err))
		}
	}

	messages := []*schema.Message{schema.UserMessage(prompt)}

	resp, err := g.cm.Generate(ctx, messages, model.WithTemperature(g.temperature))
	if err != nil {
		return fail(classify(err), err)
	}
	if resp == nil {
		return fail(ReasonMalformed, errors.New("empty response from chat model"))
	}

	return Result{Text: strings.TrimSpace(resp.Content)}
}

// GenerateAll 依次（workers > 1 时并发）生成所有 prompt，结果与输入顺序一致
func (g *Generator) GenerateAll(ctx context.Context, prompts []string, workers int) []Result {
	results := make([]Result, len(prompts))
	total := len(prompts)

	if workers <= 1 {
		for i, p := range prompts {
			logger.Log.Infof("正在生成第 %d/%d 篇文章...", i+1, total)
			results[i] = g.Generate(ctx, p)
		}
		return results
	}

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, p := range prompts {
		eg.Go(func() error {
			logger.Log.Infof("正在生成第 %d/%d 篇文章...", i+1, total)
			results[i] = g.Generate(ctx, p)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func fail(reason Reason, err error) Result {
	logger.Log.Errorf("生成文章失败 (%s): %v", reason, err)
	return Result{Reason: reason, Err: err}
}

func classify(err error) Reason {
	var (
		netErr    net.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonNetwork
	case errors.As(err, &netErr):
		return ReasonNetwork
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return ReasonMalformed
	case strings.Contains(err.Error(), "empty choices"):
		return ReasonMalformed
	default:
		return ReasonAPI
	}
}
