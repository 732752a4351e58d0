// Package profile 根据种子条目构建口味画像。
package profile

import (
	"context"

	"github.com/rushteam/anirec/core"
)

// Builder 消费种子 ID 列表，经由目录（通常是 cache.ItemCache 包装过的）
// 逐个解析并聚合出 TasteProfile。
//
// 边界行为：
//   - 只取前 MaxSeeds 个种子，控制外部调用量与时延
//   - 解析失败的种子直接跳过；全部失败时仍返回带默认值的画像
//     （AvgScore 7.0、空类型/公司表），引擎绝不因此失败
type Builder struct {
	Catalog  core.Catalog
	MaxSeeds int // 默认 10
}

func NewBuilder(catalog core.Catalog, maxSeeds int) *Builder {
	if maxSeeds <= 0 {
		maxSeeds = 10
	}
	return &Builder{Catalog: catalog, MaxSeeds: maxSeeds}
}

// Build 构建画像；只有 ctx 取消会返回错误，缺数据从不致命。
func (b *Builder) Build(ctx context.Context, seedIDs []int64) (*core.TasteProfile, error) {
	p := core.NewTasteProfile()

	seeds := seedIDs
	if len(seeds) > b.MaxSeeds {
		seeds = seeds[:b.MaxSeeds]
	}

	var scores []float64
	var popScores []float64

	for _, id := range seeds {
		if err := ctx.Err(); err != nil {
			return p, err
		}

		a, err := b.Catalog.GetByID(ctx, id)
		if err != nil || a == nil {
			// 未知 ID 或上游失败：照常处理剩余种子
			continue
		}
		p.SeedsResolved++

		for _, g := range a.Genres {
			p.AddGenre(g)
		}
		for _, s := range a.Studios {
			p.AddStudio(s)
		}

		if a.Score > 0 {
			scores = append(scores, a.Score)
		}
		if a.Popularity > 0 {
			popScores = append(popScores, 1.0/float64(a.Popularity))
		}
	}

	if len(scores) > 0 {
		p.AvgScore = mean(scores)
	}
	if len(popScores) > 0 {
		p.AvgPopularity = mean(popScores)
	}
	return p, nil
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
