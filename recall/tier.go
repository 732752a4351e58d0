package recall

import (
	"context"

	"github.com/rushteam/anirec/core"
)

// TierSearch 是评分分层召回源：按画像平均评分选择一条查询。
//   - avg >= 8.5：用户口味偏顶级作品，直接取榜单
//   - avg >= 7.5：取热门向检索
//   - 其余：取一般质量向检索
type TierSearch struct {
	Catalog core.Catalog
	Limit   int
}

func (s *TierSearch) Name() string  { return "recall.tier" }
func (s *TierSearch) Group() string { return "tier" }

func (s *TierSearch) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = 12
	}

	avg := 7.0
	if rctx != nil && rctx.Profile != nil {
		avg = rctx.Profile.AvgScore
	}

	switch {
	case avg >= 8.5:
		animes, err := s.Catalog.Top(ctx, limit)
		if err != nil {
			return nil, nil
		}
		return wrap(animes, "top anime", "tier"), nil
	case avg >= 7.5:
		animes, err := s.Catalog.Search(ctx, "popular anime", limit)
		if err != nil {
			return nil, nil
		}
		return wrap(animes, "popular anime", "tier"), nil
	default:
		animes, err := s.Catalog.Search(ctx, "good anime", limit)
		if err != nil {
			return nil, nil
		}
		return wrap(animes, "good anime", "tier"), nil
	}
}
