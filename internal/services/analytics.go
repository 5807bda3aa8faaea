package services

import (
	"context"
	"sort"

	"poshts/internal/db"
	"poshts/internal/models"
)

type CommentStampSource interface {
	CommentStamps(ctx context.Context) ([]db.CommentStamp, error)
}

// AnalyticsService 评论按天统计
type AnalyticsService struct {
	source CommentStampSource
}

func NewAnalyticsService(source CommentStampSource) *AnalyticsService {
	return &AnalyticsService{source: source}
}

func (s *AnalyticsService) DailyComments(ctx context.Context) ([]models.DailyCommentStats, error) {
	stamps, err := s.source.CommentStamps(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateDaily(stamps), nil
}

// AggregateDaily groups stamps by UTC calendar date, ascending, one entry per day with comments.
func AggregateDaily(stamps []db.CommentStamp) []models.DailyCommentStats {
	byDate := make(map[string]*models.DailyCommentStats)
	for _, st := range stamps {
		day := st.CreatedAt.UTC().Format("2006-01-02")
		entry, ok := byDate[day]
		if !ok {
			entry = &models.DailyCommentStats{Date: day}
			byDate[day] = entry
		}
		entry.Count++
		if st.IsBlocked {
			entry.BlockedCount++
		}
	}

	out := make([]models.DailyCommentStats, 0, len(byDate))
	for _, entry := range byDate {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
