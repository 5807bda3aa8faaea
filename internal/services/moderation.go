package services

import (
	"context"
	"strings"
	"time"

	"poshts/internal/logger"
	"poshts/internal/metrics"

	"go.uber.org/zap"
)

// Verdict is the outcome of a moderation call.
type Verdict int

const (
	VerdictAllow Verdict = iota
	VerdictBlock
	VerdictUnavailable
)

func (v Verdict) String() string {
	switch v {
	case VerdictAllow:
		return "allow"
	case VerdictBlock:
		return "block"
	case VerdictUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Decision separates "the model said no" from "the model could not be reached".
type Decision struct {
	Verdict Verdict
	Reply   string // normalized model reply, empty when unavailable
	Err     error
}

// ModerationService 内容审核：调用外部模型判断文本是否需要屏蔽
type ModerationService struct {
	model   TextModel
	prompt  string
	timeout time.Duration
	metrics *metrics.Metrics
}

func NewModerationService(model TextModel, prompt string, timeout time.Duration) *ModerationService {
	return &ModerationService{
		model:   model,
		prompt:  prompt,
		timeout: timeout,
		metrics: metrics.Get(),
	}
}

// Classify makes exactly one model call bounded by the moderation timeout.
func (s *ModerationService) Classify(ctx context.Context, text string) Decision {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.model.Complete(ctx, renderPrompt(s.prompt, map[string]string{"text": text}, "text"))
	s.metrics.ModerationDuration.Observe(time.Since(start).Seconds())

	var d Decision
	if err != nil {
		d = Decision{Verdict: VerdictUnavailable, Err: err}
		logger.Log.Warn("Moderation unavailable, allowing content", zap.Error(err))
	} else {
		normalized := strings.ToLower(strings.TrimSpace(reply))
		d = Decision{Verdict: VerdictAllow, Reply: normalized}
		if normalized == "true" {
			d.Verdict = VerdictBlock
		}
	}

	s.metrics.ModerationDecisions.WithLabelValues(d.Verdict.String()).Inc()
	return d
}

// Moderate returns true only when the model explicitly asks to block.
func (s *ModerationService) Moderate(ctx context.Context, text string) bool {
	return s.Classify(ctx, text).Verdict == VerdictBlock
}
