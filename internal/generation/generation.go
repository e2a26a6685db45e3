// Package generation talks to the remote text-generation service.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/logger"
	"mock_interview_backend/pkg/monitoring"
	"mock_interview_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Generator 发送提示词并返回模型原始文本
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type provider interface {
	name() string
	complete(ctx context.Context, prompt string) (string, error)
	close() error
}

// Client 为每次调用加超时、指标、链路追踪并统一错误分类，不做自动重试
type Client struct {
	p       provider
	timeout time.Duration
}

// New 按配置创建客户端，密钥缺失等配置问题在启动时返回
func New(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("generation: api key is not configured")
	}

	var (
		p   provider
		err error
	)
	switch cfg.Provider {
	case "gemini", "":
		p, err = newGeminiProvider(ctx, cfg)
	case "openai":
		p, err = newOpenAIProvider(cfg, nil)
	default:
		err = fmt.Errorf("generation: unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return newClient(p, cfg.Timeout), nil
}

func newClient(p provider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 40 * time.Second
	}
	return &Client{p: p, timeout: timeout}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, "generation.Generate",
		attribute.String("generation.provider", c.p.name()),
		attribute.Int("generation.prompt_length", len(prompt)))

	start := time.Now()
	text, err := c.p.complete(ctx, prompt)
	monitoring.GenerationDuration.WithLabelValues(c.p.name()).Observe(time.Since(start).Seconds())

	err = classify(ctx, text, err)
	monitoring.GenerationCounter.WithLabelValues(c.p.name(), outcome(err)).Inc()
	tracing.EndSpan(span, err)

	if err != nil {
		logger.Log.Warn("Generation call failed",
			zap.String("provider", c.p.name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", err
	}
	return text, nil
}

func (c *Client) Close() error {
	return c.p.close()
}

func classify(ctx context.Context, text string, err error) error {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", util.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", util.ErrUpstream, err)
	}
	if strings.TrimSpace(text) == "" {
		return util.ErrEmptyResponse
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, util.ErrTimeout):
		return "timeout"
	case errors.Is(err, util.ErrEmptyResponse):
		return "empty"
	default:
		return "upstream"
	}
}
