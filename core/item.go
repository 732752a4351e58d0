package core

import "github.com/rushteam/anirec/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选条目、分数、来源、标签。
// Anime 是不可变的目录数据；Score/Query/PrimaryGenre 是本次请求内的瞬时打分信息。
// Labels 用于解释与策略驱动（found_via / filtered / reason 等）。
type Item struct {
	Anime *Anime

	// Score 是本次请求计算出的相关度分数，最终钳制在 [0,1]。
	Score float64

	// Query 记录产生该候选的检索词（provenance），用于诊断与多样性分析。
	Query string

	// PrimaryGenre 是主类型归属：第一个与画像重叠的类型，否则取条目的首个类型。
	PrimaryGenre string

	Labels map[string]utils.Label
}

func NewItem(a *Anime) *Item {
	return &Item{
		Anime:  a,
		Labels: make(map[string]utils.Label),
	}
}

// ID 返回目录标识；Anime 为空时返回 0（无效候选，链路各节点会跳过）。
func (it *Item) ID() int64 {
	if it == nil || it.Anime == nil {
		return 0
	}
	return it.Anime.MALID
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
