package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"poshts/internal/db"
	"poshts/internal/logger"
	"poshts/internal/metrics"
	"poshts/internal/models"

	"go.uber.org/zap"
)

// AutoReplyStore is the slice of the store the auto-reply pipeline needs.
type AutoReplyStore interface {
	GetPosht(ctx context.Context, id uint) (*models.Posht, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
}

type Replier interface {
	Generate(ctx context.Context, poshtText, commentText string) (string, bool)
}

type Moderator interface {
	Moderate(ctx context.Context, text string) bool
}

// AutoReplyService 评论自动回复：延迟后以帖子作者身份生成一条回复
type AutoReplyService struct {
	store     AutoReplyStore
	replier   Replier
	scheduler *Scheduler
	moderator Moderator // nil: replies are stored without moderation
	delayUnit time.Duration
	metrics   *metrics.Metrics
}

type AutoReplyOption func(*AutoReplyService)

// WithDelayUnit scales auto_comment_delay; the default unit is one second.
func WithDelayUnit(unit time.Duration) AutoReplyOption {
	return func(s *AutoReplyService) { s.delayUnit = unit }
}

// WithReplyModeration runs generated replies through m before they are stored.
func WithReplyModeration(m Moderator) AutoReplyOption {
	return func(s *AutoReplyService) { s.moderator = m }
}

func NewAutoReplyService(store AutoReplyStore, replier Replier, scheduler *Scheduler, opts ...AutoReplyOption) *AutoReplyService {
	s := &AutoReplyService{
		store:     store,
		replier:   replier,
		scheduler: scheduler,
		delayUnit: time.Second,
		metrics:   metrics.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trigger hands the comment to the scheduler and returns immediately.
// Blocked and auto-created comments never start a cycle.
func (s *AutoReplyService) Trigger(comment models.Comment) bool {
	if comment.AutoCreated || comment.IsBlocked {
		return false
	}
	name := fmt.Sprintf("auto-reply:lookup:%d", comment.ID)
	return s.scheduler.Schedule(0, name, func(ctx context.Context) {
		s.plan(ctx, comment)
	})
}

// plan resolves the posht author and schedules the reply after their delay.
func (s *AutoReplyService) plan(ctx context.Context, comment models.Comment) {
	posht, err := s.store.GetPosht(ctx, comment.PoshtID)
	if err != nil {
		s.skip("posht lookup", comment, err)
		return
	}

	author, err := s.store.GetUser(ctx, posht.UserID)
	if err != nil {
		s.skip("author lookup", comment, err)
		return
	}

	delay, enabled := author.AutoReplyDelay()
	if !enabled {
		s.metrics.AutoRepliesTotal.WithLabelValues("skipped").Inc()
		return
	}

	logger.Log.Debug("Auto-reply scheduled",
		logger.WithCommentID(comment.ID),
		logger.WithPoshtID(posht.ID),
		zap.Int("delay_seconds", delay),
	)

	name := fmt.Sprintf("auto-reply:%d", comment.ID)
	s.scheduler.Schedule(scaleDelay(delay, s.delayUnit), name, func(ctx context.Context) {
		if err := s.reply(ctx, comment); err != nil {
			s.metrics.AutoRepliesTotal.WithLabelValues("failed").Inc()
			logger.Log.Error("Auto-reply failed", logger.WithCommentID(comment.ID), zap.Error(err))
		}
	})
}

// scaleDelay converts delay units to a Duration, saturating instead of wrapping.
func scaleDelay(delay int, unit time.Duration) time.Duration {
	if delay <= 0 || unit <= 0 {
		return 0
	}
	if int64(delay) > math.MaxInt64/int64(unit) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay) * unit
}

func (s *AutoReplyService) reply(ctx context.Context, comment models.Comment) error {
	// 延迟期间帖子可能已被删除
	posht, err := s.store.GetPosht(ctx, comment.PoshtID)
	if err != nil {
		s.skip("posht re-check", comment, err)
		return nil
	}

	text, generated := s.replier.Generate(ctx, posht.PoshtText, comment.CommentText)

	autoComment := &models.Comment{
		CommentText: text,
		PoshtID:     posht.ID,
		UserID:      posht.UserID,
		AutoCreated: true,
	}
	if s.moderator != nil {
		autoComment.IsBlocked = s.moderator.Moderate(ctx, text)
	}

	if err := s.store.CreateComment(ctx, autoComment); err != nil {
		return fmt.Errorf("persist auto-reply: %w", err)
	}

	outcome := "generated"
	if !generated {
		outcome = "fallback"
	}
	s.metrics.AutoRepliesTotal.WithLabelValues(outcome).Inc()
	logger.Log.Info("Auto-reply created",
		logger.WithCommentID(autoComment.ID),
		logger.WithPoshtID(posht.ID),
		zap.Uint("reply_to", comment.ID),
		zap.Bool("fallback", !generated),
	)
	return nil
}

func (s *AutoReplyService) skip(stage string, comment models.Comment, err error) {
	s.metrics.AutoRepliesTotal.WithLabelValues("skipped").Inc()
	if errors.Is(err, db.ErrNotFound) {
		logger.Log.Debug("Auto-reply skipped", zap.String("stage", stage), logger.WithCommentID(comment.ID))
		return
	}
	logger.Log.Warn("Auto-reply skipped", zap.String("stage", stage), logger.WithCommentID(comment.ID), zap.Error(err))
}
