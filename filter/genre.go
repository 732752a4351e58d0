package filter

import (
	"context"
	"strings"

	"github.com/rushteam/anirec/core"
)

// GenreFilter 类型包含/排除过滤器（大小写不敏感的精确匹配）：
//   - Include 非空时，候选必须命中其中至少一个类型
//   - Exclude 命中任一即剔除
type GenreFilter struct {
	Include []string
	Exclude []string
}

func (f *GenreFilter) Name() string { return "filter.genre" }

func (f *GenreFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil || item.Anime == nil {
		return true, nil
	}

	genres := item.Anime.Genres
	for _, ex := range f.Exclude {
		if matchGenre(genres, ex) {
			return true, nil
		}
	}
	if len(f.Include) > 0 {
		for _, in := range f.Include {
			if matchGenre(genres, in) {
				return false, nil
			}
		}
		return true, nil
	}
	return false, nil
}

func matchGenre(genres []string, name string) bool {
	for _, g := range genres {
		if strings.EqualFold(g, name) {
			return true
		}
	}
	return false
}

var _ Filter = (*GenreFilter)(nil)
