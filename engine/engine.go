// Package engine 是推荐引擎的门面：组装 Pipeline 并暴露
// Recommend / Search / Trending 三个操作。
package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/rushteam/anirec/core"
	"github.com/rushteam/anirec/filter"
	"github.com/rushteam/anirec/pipeline"
	"github.com/rushteam/anirec/pkg/utils"
	"github.com/rushteam/anirec/profile"
	"github.com/rushteam/anirec/rank"
	"github.com/rushteam/anirec/reason"
	"github.com/rushteam/anirec/recall"
	"github.com/rushteam/anirec/rerank"
)

// Engine 把目录客户端、画像构建与推荐 Pipeline 组装成一个可直接调用的门面。
// Engine 是无状态的（目录客户端层面的缓存除外），可在多个 goroutine 间共享。
type Engine struct {
	catalog core.Catalog
	cfg     *core.EngineConfig
	builder *profile.Builder
	nsfw    *filter.NSFWFilter
	rules   *filter.RuleFilter
}

// New 创建引擎。cfg 为 nil 时使用默认配置；
// cfg.Rules 中任一 CEL 规则编译失败都会返回错误。
func New(catalog core.Catalog, cfg *core.EngineConfig) (*Engine, error) {
	if cfg == nil {
		cfg = core.DefaultEngineConfig()
	}

	var rules *filter.RuleFilter
	if len(cfg.Rules) > 0 {
		var err error
		rules, err = filter.NewRuleFilter(cfg.Rules)
		if err != nil {
			return nil, err
		}
	}

	return &Engine{
		catalog: catalog,
		cfg:     cfg,
		builder: profile.NewBuilder(catalog, cfg.MaxSeeds),
		nsfw:    filter.DefaultNSFWFilter(),
		rules:   rules,
	}, nil
}

// Recommend 基于种子条目生成推荐。
//
// max <= 0 时取默认条数；超过调用方上限时收敛到上限。
// 种子全部无法解析时走默认画像而不是报错；整条链路产出为空时
// 降级为安全过滤后的榜单（带 fallback 标记），status 仍是成功。
func (e *Engine) Recommend(ctx context.Context, seedIDs []int64, max int) ([]*core.Recommendation, error) {
	if err := validateSeeds(seedIDs); err != nil {
		return nil, err
	}
	max = clampMax(max, e.cfg.DefaultMax, e.cfg.CallerMaxLimit)
	if max > e.cfg.ResponseCap {
		max = e.cfg.ResponseCap
	}

	prof, err := e.builder.Build(ctx, seedIDs)
	if err != nil {
		return nil, err
	}
	rctx := core.NewRecommendContext(seedIDs, prof)

	p := e.buildPipeline(max)
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return e.fallback(ctx, rctx, max)
	}
	return e.format(items), nil
}

// Search 对目录做安全过滤后的检索，返回的简介已截断。
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]*core.Anime, error) {
	q, err := validateQuery(query)
	if err != nil {
		return nil, err
	}
	limit = clampMax(limit, e.cfg.DefaultMax, e.cfg.CallerMaxLimit)

	animes, err := e.catalog.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	return e.sanitize(animes, limit), nil
}

// Trending 返回安全过滤后的榜单，相似度取目录评分的十分之一。
func (e *Engine) Trending(ctx context.Context, limit int) ([]*core.Recommendation, error) {
	limit = clampMax(limit, e.cfg.DefaultMax, e.cfg.CallerMaxLimit)

	animes, err := e.catalog.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Recommendation, 0, limit)
	for _, a := range animes {
		if a == nil || e.nsfw.Unsafe(a) {
			continue
		}
		why := "Trending now"
		if a.Score > 0 {
			why = fmt.Sprintf("Trending anime with %.1f/10 rating", a.Score)
		}
		out = append(out, e.newRecommendation(a, clamp01(a.Score/10), why, ""))
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// buildPipeline 组装一次推荐的完整 Node 链。
func (e *Engine) buildPipeline(max int) *pipeline.Pipeline {
	filters := []filter.Filter{
		filter.NewThresholdFilter(e.cfg),
		e.nsfw,
	}
	if e.cfg.MinCatalogScore > 0 {
		filters = append(filters, &filter.MinScoreFilter{Min: e.cfg.MinCatalogScore})
	}
	if len(e.cfg.IncludeGenres) > 0 || len(e.cfg.ExcludeGenres) > 0 {
		filters = append(filters, &filter.GenreFilter{
			Include: e.cfg.IncludeGenres,
			Exclude: e.cfg.ExcludeGenres,
		})
	}
	if e.rules != nil {
		filters = append(filters, e.rules)
	}

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			recall.NewGatherer(e.catalog, e.cfg),
			rank.NewSimilarityNode(e.cfg),
			&filter.FilterNode{Filters: filters},
			&rerank.Diversity{Max: max, MaxPerGenre: e.cfg.MaxPerGenre},
			&rerank.TopNNode{N: e.cfg.ResponseCap},
			&reason.Node{TopGenres: e.cfg.TopGenres, TopStudios: e.cfg.TopStudios},
		},
	}
}

// fallback 在链路产出为空时降级为安全过滤后的榜单。
func (e *Engine) fallback(ctx context.Context, rctx *core.RecommendContext, max int) ([]*core.Recommendation, error) {
	rctx.PutLabel("fallback", utils.Label{Value: "top", Source: "engine"})

	animes, err := e.catalog.Top(ctx, max)
	if err != nil {
		return []*core.Recommendation{}, nil
	}

	out := make([]*core.Recommendation, 0, max)
	for _, a := range animes {
		if a == nil || e.nsfw.Unsafe(a) || rctx.IsSeed(a.MALID) {
			continue
		}
		out = append(out, e.newRecommendation(a, clamp01(a.Score/10), reason.FallbackReason, "fallback"))
		if len(out) >= max {
			break
		}
	}
	return out, nil
}

// format 把链路产出的 Item 转成最终的 Recommendation。
func (e *Engine) format(items []*core.Item) []*core.Recommendation {
	out := make([]*core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil || it.Anime == nil {
			continue
		}
		why := reason.FallbackReason
		if lbl, ok := it.GetLabel("reason"); ok && lbl.Value != "" {
			why = lbl.Value
		}
		out = append(out, e.newRecommendation(it.Anime, it.Score, why, it.Query))
	}
	return out
}

func (e *Engine) newRecommendation(a *core.Anime, score float64, why, foundVia string) *core.Recommendation {
	copied := *a
	copied.Synopsis = a.TruncateSynopsis(e.cfg.SynopsisLength)
	return &core.Recommendation{
		Anime:           copied,
		SimilarityScore: round3(clamp01(score)),
		Reason:          why,
		FoundVia:        foundVia,
	}
}

// sanitize 做安全过滤并截断简介。
func (e *Engine) sanitize(animes []*core.Anime, limit int) []*core.Anime {
	out := make([]*core.Anime, 0, len(animes))
	for _, a := range animes {
		if a == nil || e.nsfw.Unsafe(a) {
			continue
		}
		copied := *a
		copied.Synopsis = a.TruncateSynopsis(e.cfg.SynopsisLength)
		out = append(out, &copied)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
