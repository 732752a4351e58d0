// Package dsl 提供基于 CEL (Common Expression Language) 的候选规则解释器。
// 用于把"反复手调阈值"类的运营规则做成可配置表达式，而不是改代码。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/anirec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("anime", cel.DynType),
			cel.Variable("profile", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的规则表达式，可安全地并发复用于多个候选。
//
// 表达式语法（CEL 标准语法），可用变量：
//   - item: {score, query, primary_genre}
//   - anime: {id, title, score, rank, popularity, members, episodes, year, rating, genres, studios}
//   - profile: {avg_score, seeds_resolved, genres, studios}
//
// 示例：
//   - `item.score < 0.2`                              → 剔除低分候选
//   - `anime.episodes > 500`                          → 剔除超长篇
//   - `"Horror" in anime.genres && profile.avg_score < 6.0`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译规则表达式；表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式，用于 filtered 标签与错误提示。
func (p *Program) Expr() string { return p.expr }

// Eval 对单个候选执行表达式，返回布尔结果。
// 表达式内部对不存在 key 的访问会返回错误，调用方应使用 `key != null` 检查存在性。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	input := map[string]any{
		"item":    map[string]any{},
		"anime":   map[string]any{},
		"profile": map[string]any{},
	}

	if item != nil {
		input["item"] = map[string]any{
			"score":         item.Score,
			"query":         item.Query,
			"primary_genre": item.PrimaryGenre,
		}
		if a := item.Anime; a != nil {
			input["anime"] = map[string]any{
				"id":         a.MALID,
				"title":      a.Title,
				"score":      a.Score,
				"rank":       a.Rank,
				"popularity": a.Popularity,
				"members":    a.Members,
				"episodes":   a.Episodes,
				"year":       a.Year,
				"rating":     a.Rating,
				"genres":     a.Genres,
				"studios":    a.Studios,
			}
		}
	}

	if rctx != nil && rctx.Profile != nil {
		p := rctx.Profile
		input["profile"] = map[string]any{
			"avg_score":      p.AvgScore,
			"seeds_resolved": p.SeedsResolved,
			"genres":         p.GenreCounts,
			"studios":        p.StudioCounts,
		}
	}
	return input
}
