package service

import (
	"context"
	"errors"

	"mock_interview_backend/internal/generation"
	"mock_interview_backend/internal/normalizer"
	"mock_interview_backend/internal/prompt"
	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/logger"
	"mock_interview_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// runGeneration 构建提示词 -> 调用模型 -> 归一化，严格按顺序执行
func runGeneration(ctx context.Context, gen generation.Generator, req prompt.GenerationRequest, schema normalizer.Schema) (normalizer.Result, error) {
	p, err := prompt.Build(req)
	if err != nil {
		return normalizer.Result{}, err
	}

	raw, err := gen.Generate(ctx, p)
	if err != nil {
		return normalizer.Result{}, err
	}

	res, err := normalizer.Normalize(raw, schema)
	switch {
	case errors.Is(err, util.ErrEmptyResponse):
		monitoring.NormalizeCounter.WithLabelValues(schema.Name, "empty").Inc()
		return res, err
	case err != nil:
		monitoring.NormalizeCounter.WithLabelValues(schema.Name, "invalid").Inc()
		logger.Log.Warn("Model output rejected",
			zap.String("task", string(req.Kind)),
			zap.Int("raw_length", len(raw)),
			zap.Error(err))
		return res, err
	case res.Degraded:
		monitoring.NormalizeCounter.WithLabelValues(schema.Name, "fallback").Inc()
		logger.Log.Warn("Model output replaced by fallback",
			zap.String("task", string(req.Kind)),
			zap.String("reason", res.Reason),
			zap.Int("raw_length", len(raw)))
	default:
		monitoring.NormalizeCounter.WithLabelValues(schema.Name, "ok").Inc()
	}
	return res, nil
}
