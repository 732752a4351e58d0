package recall

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/anirec/core"
)

// Fanout 并发执行多个召回源，按源的声明顺序合并结果。
//
// 合并顺序是本引擎契约的一部分（去重保留首个出现、provenance 决胜都依赖
// 查询顺序），所以结果先落到按源索引的槽位，全部完成后再顺序拼接——
// 无论各源实际完成的先后如何，输出都是确定性的。
//
// 单个源失败或超时只影响它自己的槽位（置空），不会中断其余源。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

// Collect 执行所有源，返回按源顺序排列的结果槽位。
func (f *Fanout) Collect(ctx context.Context, rctx *core.RecommendContext) [][]*core.Item {
	slots := make([][]*core.Item, len(f.Sources))
	if len(f.Sources) == 0 {
		return slots
	}

	eg, gctx := errgroup.WithContext(ctx)
	if f.MaxConcurrent > 0 {
		eg.SetLimit(f.MaxConcurrent)
	}

	for i, src := range f.Sources {
		i, src := i, src
		eg.Go(func() error {
			recallCtx := gctx
			if f.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(gctx, f.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时该槽位为空，不中断其他召回源
				return nil
			}
			slots[i] = items
			return nil
		})
	}

	// 所有 goroutine 都返回 nil，Wait 不会出错
	_ = eg.Wait()
	return slots
}

// Run 执行所有源并按顺序拼接（不去重；去重在 Gatherer 合并阶段统一做）。
func (f *Fanout) Run(ctx context.Context, rctx *core.RecommendContext) []*core.Item {
	var all []*core.Item
	for _, slot := range f.Collect(ctx, rctx) {
		all = append(all, slot...)
	}
	return all
}
