package core

import "github.com/rushteam/anirec/pkg/utils"

// RecommendContext 承载一次推荐请求的种子与画像，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// SeedIDs 是用户给出的种子条目 ID，输出中绝不允许出现这些 ID。
	SeedIDs []int64

	// Profile 是由种子聚合出的口味画像；种子全部无法解析时仍为带默认值的画像。
	Profile *TasteProfile

	// Params 请求级参数，例如 max、min_score、include_genres 等。
	Params map[string]any

	// Labels 是请求级标签，可驱动整个 Pipeline 行为（例如 fallback 标记）。
	Labels map[string]utils.Label

	seedSet map[int64]struct{}
}

func NewRecommendContext(seedIDs []int64, profile *TasteProfile) *RecommendContext {
	rctx := &RecommendContext{
		SeedIDs: seedIDs,
		Profile: profile,
		seedSet: make(map[int64]struct{}, len(seedIDs)),
	}
	for _, id := range seedIDs {
		rctx.seedSet[id] = struct{}{}
	}
	return rctx
}

// IsSeed 判断 id 是否属于种子集合。
func (rctx *RecommendContext) IsSeed(id int64) bool {
	if rctx.seedSet == nil {
		for _, sid := range rctx.SeedIDs {
			if sid == id {
				return true
			}
		}
		return false
	}
	_, ok := rctx.seedSet[id]
	return ok
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 读取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
