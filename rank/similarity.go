package rank

import (
	"context"
	"sort"

	"github.com/rushteam/anirec/core"
	"github.com/rushteam/anirec/pipeline"
	"github.com/rushteam/anirec/pkg/utils"
)

// SimilarityNode 五因子加权打分节点。
//
// 因子与权重（默认配置）：类型重叠 0.60、评分贴近度 0.15、热门度平衡 0.10、
// 制作公司偏好 0.10，外加至多 0.05 的质量加分；总分钳制在 [0,1]。
// 评分/热门度的分层子系数按各自权重的固定比例（1 / 0.8 / 0.6 / 0.4）派生，
// 这样调整顶层权重即可整体缩放对应因子。
//
// 打分同时确定 PrimaryGenre（首个与画像重叠的类型，否则取条目首个类型），
// 供下游多样性重排使用。单条打分故障不会中断整批：该条记 0.1 并打
// score_error 标签。
type SimilarityNode struct {
	Config *core.EngineConfig
}

func NewSimilarityNode(cfg *core.EngineConfig) *SimilarityNode {
	if cfg == nil {
		cfg = core.DefaultEngineConfig()
	}
	return &SimilarityNode{Config: cfg}
}

func (n *SimilarityNode) Name() string        { return "rank.similarity" }
func (n *SimilarityNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *SimilarityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	profile := rctx.Profile
	if profile == nil {
		profile = core.NewTasteProfile()
	}

	for _, it := range items {
		if it == nil || it.Anime == nil {
			continue
		}
		n.scoreOne(it, profile)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

func (n *SimilarityNode) scoreOne(it *core.Item, profile *core.TasteProfile) {
	defer func() {
		if r := recover(); r != nil {
			it.Score = 0.1
			it.PutLabel("score_error", utils.Label{Value: "panic", Source: n.Name()})
		}
	}()

	a := it.Anime
	w := n.Config.Weights
	overlap := profile.GenreOverlap(a.Genres)

	score := n.genreScore(a, profile, len(overlap)) * w.Genre
	score += n.ratingScore(a, profile, len(overlap))
	score += n.popularityScore(a, profile)
	score += n.studioScore(a, profile)
	score += n.qualityBonus(a)

	it.Score = clamp01(score)
	it.PrimaryGenre = primaryGenre(a, overlap)
}

// genreScore 返回未加权的类型因子（[0,1]）：
// 每个命中类型贡献其画像占比，多类型重叠再按最高档加一次奖励。
// 无重叠时直接得 0，保证完全偏离口味的候选得不到类型分。
func (n *SimilarityNode) genreScore(a *core.Anime, profile *core.TasteProfile, overlap int) float64 {
	if overlap == 0 {
		return 0
	}
	total := profile.TotalGenreCount()
	if total <= 0 {
		total = 1
	}

	var score float64
	for _, g := range a.Genres {
		if profile.HasGenre(g) {
			score += float64(profile.GenreCounts[g]) / float64(total)
		}
	}

	// 只取最高档的重叠奖励
	switch {
	case overlap >= 3:
		score += n.Config.GenreBonus3
	case overlap >= 2:
		score += n.Config.GenreBonus2
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ratingScore 按评分差距分层给分；差距过大但质量尚可且有类型重叠时给安慰分。
func (n *SimilarityNode) ratingScore(a *core.Anime, profile *core.TasteProfile, overlap int) float64 {
	w := n.Config.Weights.Rating
	if a.Score <= 0 || profile.AvgScore <= 0 {
		return 0
	}
	diff := a.Score - profile.AvgScore
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 0.5:
		return w
	case diff <= 1.0:
		return w * 0.8
	case diff <= 1.5:
		return w * 0.6
	case diff <= 2.0:
		return w * 0.4
	case a.Score >= 7.0 && overlap > 0:
		return w * 0.2
	}
	return 0
}

// popularityScore 在画像有热门度基线时按比值给分，否则按排名落入固定档位。
func (n *SimilarityNode) popularityScore(a *core.Anime, profile *core.TasteProfile) float64 {
	w := n.Config.Weights.Popularity
	if a.Popularity <= 0 {
		return 0
	}
	pop := 1.0 / float64(a.Popularity)
	if profile.AvgPopularity > 0 {
		ratio := pop / profile.AvgPopularity
		if inv := profile.AvgPopularity / pop; inv < ratio {
			ratio = inv
		}
		return ratio * w
	}
	switch {
	case a.Popularity <= 1000:
		return w * 0.8
	case a.Popularity <= 5000:
		return w * 0.6
	case a.Popularity <= 10000:
		return w * 0.4
	}
	return 0
}

// studioScore 只计首个命中的公司：权重乘以该公司在画像中的计数占比
// （分母为画像中的公司种类数）。
func (n *SimilarityNode) studioScore(a *core.Anime, profile *core.TasteProfile) float64 {
	distinct := len(profile.StudioCounts)
	if distinct == 0 {
		return 0
	}
	for _, s := range a.Studios {
		if count, ok := profile.StudioCounts[s]; ok {
			return float64(count) / float64(distinct) * n.Config.Weights.Studio
		}
	}
	return 0
}

// qualityBonus 与画像无关的小额加分：受众规模、绝对评分、冷门佳作。
func (n *SimilarityNode) qualityBonus(a *core.Anime) float64 {
	var bonus float64
	if a.Members > 50000 {
		bonus += n.Config.MembersBonus
	}
	if a.Score >= 7.5 {
		bonus += n.Config.HighRatingBonus
	}
	if a.Popularity > 1000 && a.Popularity <= 10000 && a.Score >= 7.0 {
		bonus += n.Config.HiddenGemBonus
	}
	return bonus
}

func primaryGenre(a *core.Anime, overlap []string) string {
	if len(overlap) > 0 {
		return overlap[0]
	}
	if len(a.Genres) > 0 {
		return a.Genres[0]
	}
	return ""
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

var _ pipeline.Node = (*SimilarityNode)(nil)
