// Package anirec 是一个动漫推荐引擎工具包。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Rank → Filter → ReRank → PostProcess）
// - Labels-first: found_via / filtered / reason 等标签全链路透传，支持 explain 与降级观测
// - 目录解耦: core.Catalog 接口隔离外部目录（内置 Jikan 客户端与缓存装饰器）
package anirec

import "github.com/rushteam/anirec/pipeline"

// 轻量 facade：便于用户直接 import "anirec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
