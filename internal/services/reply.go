package services

import (
	"context"
	"strings"
	"time"

	"poshts/internal/logger"

	"go.uber.org/zap"
)

// ReplyGenerator 生成自动回复；失败时返回固定兜底文案
type ReplyGenerator struct {
	model    TextModel
	prompt   string
	fallback string
	timeout  time.Duration
}

func NewReplyGenerator(model TextModel, prompt, fallback string, timeout time.Duration) *ReplyGenerator {
	return &ReplyGenerator{
		model:    model,
		prompt:   prompt,
		fallback: fallback,
		timeout:  timeout,
	}
}

// Generate returns the reply text and whether it came from the model.
func (g *ReplyGenerator) Generate(ctx context.Context, poshtText, commentText string) (string, bool) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := renderPrompt(g.prompt, map[string]string{
		"post":    poshtText,
		"comment": commentText,
	}, "post", "comment")

	reply, err := g.model.Complete(ctx, prompt)
	if err != nil {
		logger.Log.Warn("Reply generation failed, using fallback", zap.Error(err))
		return g.fallback, false
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return g.fallback, false
	}
	return truncateRunes(reply, maxReplyRunes), true
}

// comment_text column limit
const maxReplyRunes = 1024

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
