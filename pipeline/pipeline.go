package pipeline

import (
	"context"

	"github.com/rushteam/anirec/core"
)

// Pipeline 是 anirec 的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 一次推荐 = Recall（候选收集）→ Rank（打分）→ Filter（准入/安全）→
// ReRank（多样性）→ PostProcess（理由生成）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
