package recall

import (
	"context"

	"github.com/rushteam/anirec/core"
	"github.com/rushteam/anirec/pkg/utils"
)

// Source 表示一个可并发 fan-out 的召回源。
// 在本引擎里一个 Source 对应一次目录查询（检索词或榜单），
// 这样 provenance（found_via）与查询次数上限都落在同一粒度上。
type Source interface {
	Name() string

	// Group 标记查询类别（genre / studio / tier / variety），
	// 多样性触发与排查问题都按类别统计。
	Group() string

	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// wrap 把目录结果封装为候选，打上来源标签。
func wrap(animes []*core.Anime, query, group string) []*core.Item {
	out := make([]*core.Item, 0, len(animes))
	for _, a := range animes {
		if a == nil || a.MALID == 0 {
			continue
		}
		it := core.NewItem(a)
		it.Query = query
		it.PutLabel("found_via", utils.Label{Value: query, Source: "recall." + group})
		out = append(out, it)
	}
	return out
}
