// Package reason 生成人类可读的推荐理由。
package reason

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/anirec/core"
	"github.com/rushteam/anirec/pipeline"
	"github.com/rushteam/anirec/pkg/utils"
)

// FallbackReason 是其它理由都不成立时的兜底文案。
const FallbackReason = "Recommended based on your preferences"

// Node 后处理节点：为每个候选拼出推荐理由并写入 reason 标签。
//
// 理由按维度顺序拼接（类型重叠、制作公司、评分档位、热门度档位），
// 用 " • " 连接；单条生成故障只影响该条（落兜底文案），节点本身不失败。
type Node struct {
	// TopGenres 参与理由的画像类型数，默认 3。
	TopGenres int
	// TopStudios 参与理由的偏好公司数，默认 2。
	TopStudios int
}

func (n *Node) Name() string        { return "reason.generate" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *Node) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	profile := rctx.Profile
	if profile == nil {
		profile = core.NewTasteProfile()
	}

	topGenres := n.TopGenres
	if topGenres <= 0 {
		topGenres = 3
	}
	topStudios := n.TopStudios
	if topStudios <= 0 {
		topStudios = 2
	}

	userGenres := profile.TopGenres(topGenres)
	userStudios := profile.PreferredStudios(topStudios)

	for _, it := range items {
		if it == nil || it.Anime == nil {
			continue
		}
		it.PutLabel("reason", utils.Label{
			Value:  Generate(it.Anime, userGenres, userStudios),
			Source: n.Name(),
		})
	}
	return items, nil
}

// Generate 为单个条目生成理由文案。
func Generate(a *core.Anime, userGenres, userStudios []string) string {
	var reasons []string

	var genreMatches []string
	for _, g := range userGenres {
		if a.HasGenre(g) {
			genreMatches = append(genreMatches, g)
		}
	}
	switch {
	case len(genreMatches) == 1:
		reasons = append(reasons, fmt.Sprintf("Similar %s genre", genreMatches[0]))
	case len(genreMatches) > 1:
		reasons = append(reasons, fmt.Sprintf("Shares %s genres", strings.Join(genreMatches[:2], ", ")))
	}

	for _, s := range userStudios {
		if hasStudio(a, s) {
			reasons = append(reasons, fmt.Sprintf("From %s studio", s))
			break
		}
	}

	switch {
	case a.Score >= 8.5:
		reasons = append(reasons, "Highly rated")
	case a.Score >= 8.0:
		reasons = append(reasons, "Well rated")
	}

	switch {
	case a.Popularity > 0 && a.Popularity <= 100:
		reasons = append(reasons, "Very popular")
	case a.Popularity > 0 && a.Popularity <= 500:
		reasons = append(reasons, "Popular choice")
	}

	if len(reasons) == 0 {
		return FallbackReason
	}
	return strings.Join(reasons, " • ")
}

func hasStudio(a *core.Anime, name string) bool {
	for _, s := range a.Studios {
		if s == name {
			return true
		}
	}
	return false
}

var _ pipeline.Node = (*Node)(nil)
