package recall

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rushteam/anirec/core"
	"github.com/rushteam/anirec/pipeline"
	"github.com/rushteam/anirec/pkg/utils"
)

// 召回源分组标识
const (
	GroupGenre   = "genre"
	GroupStudio  = "studio"
	GroupTier    = "tier"
	GroupVariety = "variety"
)

var varietyTerms = []string{"underrated anime", "hidden gems", "recent anime"}

// Gatherer 召回节点：根据口味画像生成查询计划并并发执行。
//
// 查询计划的构成：
//   - 画像前若干类型，每个派生 3 个查询变体
//   - 出现次数 >=2 的偏好公司（至多 TopStudios 个）
//   - 按画像均分选择的档位查询（Top 榜 / popular / good）
//
// 类型类查询的原始产出低于 VarietyTrigger 时，追加多样性兜底查询。
// 合并时按查询顺序去重（首次出现者保留），并剔除种子作品本身。
type Gatherer struct {
	Catalog core.Catalog
	Config  *core.EngineConfig
}

// NewGatherer 创建召回节点。cfg 为 nil 时使用默认配置。
func NewGatherer(catalog core.Catalog, cfg *core.EngineConfig) *Gatherer {
	if cfg == nil {
		cfg = core.DefaultEngineConfig()
	}
	return &Gatherer{Catalog: catalog, Config: cfg}
}

func (g *Gatherer) Name() string { return "recall.gatherer" }

func (g *Gatherer) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 执行召回。输入 items 被忽略，召回结果完全来自目录查询。
func (g *Gatherer) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	plan := trimPlan(g.plan(rctx.Profile), g.Config.MaxQueries)

	fanout := &Fanout{
		Sources:       plan,
		Timeout:       g.Config.RequestTimeout(),
		MaxConcurrent: g.Config.MaxConcurrent,
	}
	slots := fanout.Collect(ctx, rctx)

	// 类型类查询产出不足时追加兜底查询
	genreYield := 0
	for i, src := range plan {
		if src.Group() == GroupGenre {
			genreYield += len(slots[i])
		}
	}
	if genreYield < g.Config.VarietyTrigger {
		variety := g.varietyPlan()
		vfan := &Fanout{
			Sources:       variety,
			Timeout:       g.Config.RequestTimeout(),
			MaxConcurrent: g.Config.MaxConcurrent,
		}
		slots = append(slots, vfan.Collect(ctx, rctx)...)
	}

	rctx.PutLabel("recall.queries", utils.Label{
		Value:  strconv.Itoa(len(slots)),
		Source: g.Name(),
	})
	return g.merge(rctx, slots), nil
}

// plan 由画像生成主查询计划（类型、公司、档位，按此顺序）。
func (g *Gatherer) plan(profile *core.TasteProfile) []Source {
	var sources []Source
	if profile == nil {
		profile = core.NewTasteProfile()
	}

	for _, genre := range profile.TopGenres(g.Config.TopGenres) {
		lower := strings.ToLower(genre)
		for _, term := range []string{
			fmt.Sprintf("%s anime", lower),
			fmt.Sprintf("best %s anime", lower),
			lower,
		} {
			sources = append(sources, &TermSearch{
				Catalog: g.Catalog,
				Term:    term,
				Limit:   g.Config.GenreQueryLimit,
				Tag:     GroupGenre,
			})
		}
	}

	for _, studio := range profile.PreferredStudios(g.Config.TopStudios) {
		sources = append(sources, &TermSearch{
			Catalog: g.Catalog,
			Term:    studio,
			Limit:   g.Config.StudioQueryLimit,
			Tag:     GroupStudio,
		})
	}

	sources = append(sources, &TierSearch{
		Catalog: g.Catalog,
		Limit:   g.Config.TierQueryLimit,
	})
	return sources
}

// trimPlan 把查询计划裁剪到 max 个：先裁类型类查询的尾部变体，
// 再裁公司类查询，档位查询最后才会被挤掉。
func trimPlan(plan []Source, max int) []Source {
	if max <= 0 || len(plan) <= max {
		return plan
	}
	excess := len(plan) - max
	drop := make(map[int]bool, excess)
	for _, group := range []string{GroupGenre, GroupStudio, GroupTier} {
		for i := len(plan) - 1; i >= 0 && excess > 0; i-- {
			if !drop[i] && plan[i].Group() == group {
				drop[i] = true
				excess--
			}
		}
	}
	out := make([]Source, 0, max)
	for i, src := range plan {
		if !drop[i] {
			out = append(out, src)
		}
	}
	return out
}

func (g *Gatherer) varietyPlan() []Source {
	sources := make([]Source, 0, len(varietyTerms))
	for _, term := range varietyTerms {
		sources = append(sources, &TermSearch{
			Catalog: g.Catalog,
			Term:    term,
			Limit:   g.Config.VarietyQueryLimit,
			Tag:     GroupVariety,
		})
	}
	return sources
}

// merge 按槽位顺序合并：同一作品保留首次出现的条目（合并后续标签），
// 种子作品不进入候选集。
func (g *Gatherer) merge(rctx *core.RecommendContext, slots [][]*core.Item) []*core.Item {
	var merged []*core.Item
	seen := make(map[int64]*core.Item)
	for _, slot := range slots {
		for _, item := range slot {
			id := item.ID()
			if id == 0 || rctx.IsSeed(id) {
				continue
			}
			if first, ok := seen[id]; ok {
				for k, v := range item.Labels {
					first.PutLabel(k, v)
				}
				continue
			}
			seen[id] = item
			merged = append(merged, item)
		}
	}
	return merged
}

var _ pipeline.Node = (*Gatherer)(nil)
