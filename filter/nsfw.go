package filter

import (
	"context"
	"strings"

	"github.com/rushteam/anirec/core"
)

// NSFWFilter 成人内容过滤器：对分级、类型、标题做大小写不敏感的子串匹配，
// 任一维度命中即过滤。宁可误杀也不放过（例如 "Mature Themes" 会命中 mature）。
//
// 除了作为 Filter 挂入链路，Unsafe 也可以单独调用——检索、榜单、兜底
// 等不走完整链路的出口同样要过这道安全检查。
type NSFWFilter struct {
	// RatingMarkers 命中目录分级字段的标记
	RatingMarkers []string
	// GenreMarkers 命中类型名的标记
	GenreMarkers []string
	// TitleMarkers 命中标题的标记
	TitleMarkers []string
}

// DefaultNSFWFilter 返回默认标记集的过滤器。
func DefaultNSFWFilter() *NSFWFilter {
	return &NSFWFilter{
		RatingMarkers: []string{"r+", "rx", "hentai", "18+", "mature"},
		GenreMarkers:  []string{"hentai", "ecchi", "yaoi", "yuri"},
		TitleMarkers:  []string{"hentai", "ecchi", "18+", "adult"},
	}
}

func (f *NSFWFilter) Name() string { return "filter.nsfw" }

func (f *NSFWFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil || item.Anime == nil {
		return true, nil
	}
	return f.Unsafe(item.Anime), nil
}

// Unsafe 判断条目是否属于成人内容。
func (f *NSFWFilter) Unsafe(a *core.Anime) bool {
	if a == nil {
		return false
	}
	if containsAny(a.Rating, f.RatingMarkers) {
		return true
	}
	for _, g := range a.Genres {
		if containsAny(g, f.GenreMarkers) {
			return true
		}
	}
	return containsAny(a.Title, f.TitleMarkers)
}

func containsAny(s string, markers []string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

var _ Filter = (*NSFWFilter)(nil)
