package filter

import (
	"context"

	"github.com/rushteam/anirec/core"
	"github.com/rushteam/anirec/pkg/dsl"
)

// RuleFilter 基于 CEL 表达式的排除过滤器：任一规则求值为 true 即过滤。
// 表达式可引用 item / anime / profile 三个变量，例如：
//
//	anime.episodes > 100
//	anime.score < 6.0 && item.score < 0.5
//
// 规则在构造时统一编译，求值出错按保留处理（规则故障不应清空结果）。
type RuleFilter struct {
	programs []*dsl.Program
}

// NewRuleFilter 编译规则表达式。任何一条编译失败都返回错误，
// 带着编译不过的规则上线不如尽早失败。
func NewRuleFilter(rules []string) (*RuleFilter, error) {
	programs := make([]*dsl.Program, 0, len(rules))
	for _, expr := range rules {
		prg, err := dsl.Compile(expr)
		if err != nil {
			return nil, err
		}
		programs = append(programs, prg)
	}
	return &RuleFilter{programs: programs}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil || item.Anime == nil {
		return true, nil
	}
	for _, prg := range f.programs {
		hit, err := prg.Eval(item, rctx)
		if err != nil {
			continue
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}

var _ Filter = (*RuleFilter)(nil)
