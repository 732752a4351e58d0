package recall

import (
	"context"

	"github.com/rushteam/anirec/core"
)

// TermSearch 是关键词检索召回源：一次 Source.Recall 对应一次目录 Search。
// 类型/公司/多样性查询都是 TermSearch，只是检索词与 Group 不同。
type TermSearch struct {
	Catalog core.Catalog
	Term    string
	Limit   int
	Tag     string // genre / studio / variety
}

func (s *TermSearch) Name() string  { return "recall." + s.Tag + ":" + s.Term }
func (s *TermSearch) Group() string { return s.Tag }

func (s *TermSearch) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = 8
	}
	animes, err := s.Catalog.Search(ctx, s.Term, limit)
	if err != nil {
		// 目录层已把失败折叠为空结果，这里兜底
		return nil, nil
	}
	return wrap(animes, s.Term, s.Tag), nil
}
