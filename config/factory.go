// Package config 提供配置驱动的 Pipeline 组装：
// 把 YAML/JSON 里的 node 列表翻译成已注册的 Node 实例。
package config

import (
	"github.com/rushteam/anirec/core"
	"github.com/rushteam/anirec/filter"
	"github.com/rushteam/anirec/pipeline"
	"github.com/rushteam/anirec/pkg/conv"
	"github.com/rushteam/anirec/rank"
	"github.com/rushteam/anirec/reason"
	"github.com/rushteam/anirec/recall"
	"github.com/rushteam/anirec/rerank"
)

// Builders 持有构建 Node 所需的外部依赖（目录客户端与引擎配置）。
// 配置文件只声明节点类型与参数，依赖由运行时注入。
type Builders struct {
	Catalog core.Catalog
	Engine  *core.EngineConfig
}

// Factory 返回注册了全部内置 Node 类型的工厂。
func (b *Builders) Factory() *pipeline.NodeFactory {
	if b.Engine == nil {
		b.Engine = core.DefaultEngineConfig()
	}

	factory := pipeline.NewNodeFactory()
	factory.Register("recall.gatherer", b.buildGatherer)
	factory.Register("rank.similarity", b.buildSimilarity)
	factory.Register("filter", b.buildFilter)
	factory.Register("rerank.diversity", b.buildDiversity)
	factory.Register("rerank.topn", b.buildTopN)
	factory.Register("reason.generate", b.buildReason)
	return factory
}

func (b *Builders) buildGatherer(_ map[string]any) (pipeline.Node, error) {
	return recall.NewGatherer(b.Catalog, b.Engine), nil
}

func (b *Builders) buildSimilarity(_ map[string]any) (pipeline.Node, error) {
	return rank.NewSimilarityNode(b.Engine), nil
}

// buildFilter 按配置组合过滤器，未配置时给出默认安全组合（阈值 + 成人内容）。
//
//	- type: filter
//	  config:
//	    threshold: true
//	    nsfw: true
//	    min_score: 6.5
//	    exclude_genres: ["Horror"]
//	    rules: ["anime.episodes > 500"]
func (b *Builders) buildFilter(cfg map[string]any) (pipeline.Node, error) {
	var filters []filter.Filter

	if conv.ConfigGet(cfg, "threshold", true) {
		filters = append(filters, filter.NewThresholdFilter(b.Engine))
	}
	if conv.ConfigGet(cfg, "nsfw", true) {
		filters = append(filters, filter.DefaultNSFWFilter())
	}
	if min := conv.ConfigGetFloat64(cfg, "min_score", 0); min > 0 {
		filters = append(filters, &filter.MinScoreFilter{Min: min})
	}

	include := conv.SliceAnyToString(cfg["include_genres"])
	exclude := conv.SliceAnyToString(cfg["exclude_genres"])
	if len(include) > 0 || len(exclude) > 0 {
		filters = append(filters, &filter.GenreFilter{Include: include, Exclude: exclude})
	}

	if rules := conv.SliceAnyToString(cfg["rules"]); len(rules) > 0 {
		rf, err := filter.NewRuleFilter(rules)
		if err != nil {
			return nil, err
		}
		filters = append(filters, rf)
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func (b *Builders) buildDiversity(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		Max:         conv.ConfigGetInt(cfg, "max", b.Engine.DefaultMax),
		MaxPerGenre: conv.ConfigGetInt(cfg, "max_per_genre", b.Engine.MaxPerGenre),
	}, nil
}

func (b *Builders) buildTopN(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: conv.ConfigGetInt(cfg, "n", b.Engine.ResponseCap),
	}, nil
}

func (b *Builders) buildReason(cfg map[string]any) (pipeline.Node, error) {
	return &reason.Node{
		TopGenres:  conv.ConfigGetInt(cfg, "top_genres", b.Engine.TopGenres),
		TopStudios: conv.ConfigGetInt(cfg, "top_studios", b.Engine.TopStudios),
	}, nil
}
