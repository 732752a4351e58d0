package rerank

import (
	"context"

	"github.com/rushteam/anirec/core"
	"github.com/rushteam/anirec/pipeline"
	"github.com/rushteam/anirec/pkg/utils"
)

// Diversity 两轮多样性选取节点。输入必须已按分数降序排列。
//
// 第一轮按序遍历候选，满足任一条件即入选：
//   - 已选数量不足 Max 的一半（前排无条件保送）
//   - 带来尚未出现过的类型
//   - 带来尚未出现过的制作公司
//
// MaxPerGenre > 0 时第一轮还会限制每个主类型的入选条数，避免画像里
// 压倒性的类型吃掉整个结果页。第一轮未满时，第二轮按分数顺序补齐。
// 候选总数不超过 Max 时原样放行。
type Diversity struct {
	// Max 最终保留的条数，<= 0 表示不做多样性选取。
	Max int

	// MaxPerGenre 第一轮每个主类型最多入选条数，0 表示关闭。
	MaxPerGenre int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Max <= 0 || len(items) <= n.Max {
		return items, nil
	}

	selected := make([]*core.Item, 0, n.Max)
	picked := make(map[int64]bool, n.Max)
	usedGenres := make(map[string]bool, 32)
	usedStudios := make(map[string]bool, 16)
	perGenre := make(map[string]int, 16)

	// 第一轮：类型/公司多样性优先
	for _, it := range items {
		if len(selected) >= n.Max {
			break
		}
		if it == nil || it.Anime == nil {
			continue
		}

		if n.MaxPerGenre > 0 && it.PrimaryGenre != "" && perGenre[it.PrimaryGenre] >= n.MaxPerGenre {
			continue
		}

		addsGenre := false
		for _, g := range it.Anime.Genres {
			if !usedGenres[g] {
				addsGenre = true
				break
			}
		}
		addsStudio := false
		for _, s := range it.Anime.Studios {
			if !usedStudios[s] {
				addsStudio = true
				break
			}
		}

		if len(selected) < n.Max/2 || addsGenre || addsStudio {
			selected = append(selected, it)
			picked[it.ID()] = true
			for _, g := range it.Anime.Genres {
				usedGenres[g] = true
			}
			for _, s := range it.Anime.Studios {
				usedStudios[s] = true
			}
			if it.PrimaryGenre != "" {
				perGenre[it.PrimaryGenre]++
			}
			it.PutLabel("diversity", utils.Label{Value: "pass1", Source: n.Name()})
		}
	}

	// 第二轮：按分数顺序补齐剩余名额
	for _, it := range items {
		if len(selected) >= n.Max {
			break
		}
		if it == nil || it.Anime == nil || picked[it.ID()] {
			continue
		}
		selected = append(selected, it)
		picked[it.ID()] = true
		it.PutLabel("diversity", utils.Label{Value: "pass2", Source: n.Name()})
	}

	return selected, nil
}

var _ pipeline.Node = (*Diversity)(nil)
