package filter

import (
	"context"

	"github.com/rushteam/anirec/core"
)

// ThresholdFilter 相似度准入过滤器，阈值不对称：
// 与画像有类型重叠的候选用较低门槛，完全无重叠的候选必须分数足够高才放行。
type ThresholdFilter struct {
	MinScoreOverlap   float64 // 有类型重叠时的准入分
	MinScoreNoOverlap float64 // 无类型重叠时的准入分
}

// NewThresholdFilter 从配置构造准入过滤器。
func NewThresholdFilter(cfg *core.EngineConfig) *ThresholdFilter {
	if cfg == nil {
		cfg = core.DefaultEngineConfig()
	}
	return &ThresholdFilter{
		MinScoreOverlap:   cfg.MinScoreOverlap,
		MinScoreNoOverlap: cfg.MinScoreNoOverlap,
	}
}

func (f *ThresholdFilter) Name() string { return "filter.threshold" }

func (f *ThresholdFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil || item.Anime == nil {
		return true, nil
	}

	threshold := f.MinScoreNoOverlap
	if rctx != nil && rctx.Profile != nil && len(rctx.Profile.GenreOverlap(item.Anime.Genres)) > 0 {
		threshold = f.MinScoreOverlap
	}
	return item.Score < threshold, nil
}

// MinScoreFilter 目录评分下限过滤器。Min <= 0 时关闭。
// 评分未知（0）的条目不受此过滤器影响，未知不等于低分。
type MinScoreFilter struct {
	Min float64
}

func (f *MinScoreFilter) Name() string { return "filter.min_score" }

func (f *MinScoreFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil || item.Anime == nil {
		return true, nil
	}
	if f.Min <= 0 || item.Anime.Score <= 0 {
		return false, nil
	}
	return item.Anime.Score < f.Min, nil
}

var (
	_ Filter = (*ThresholdFilter)(nil)
	_ Filter = (*MinScoreFilter)(nil)
)
