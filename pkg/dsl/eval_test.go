package dsl

import (
	"testing"

	"github.com/rushteam/anirec/core"
)

func TestCompileAndEval(t *testing.T) {
	it := core.NewItem(&core.Anime{
		MALID:    1535,
		Title:    "Death Note",
		Score:    8.62,
		Episodes: 37,
		Genres:   []string{"Supernatural", "Suspense"},
	})
	it.Score = 0.87
	it.PrimaryGenre = "Supernatural"

	p := core.NewTasteProfile()
	p.AvgScore = 8.0
	rctx := core.NewRecommendContext(nil, p)

	tests := []struct {
		expr string
		want bool
	}{
		{expr: `item.score > 0.5`, want: true},
		{expr: `anime.episodes > 100`, want: false},
		{expr: `"Suspense" in anime.genres`, want: true},
		{expr: `anime.score >= 8.0 && profile.avg_score >= 8.0`, want: true},
		{expr: `item.primary_genre == "Comedy"`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got, err := prg.Eval(it, rctx)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompile_InvalidExpression(t *testing.T) {
	if _, err := Compile(`anime.score >`); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestEval_NonBooleanResult(t *testing.T) {
	prg, err := Compile(`anime.score`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := prg.Eval(core.NewItem(&core.Anime{Score: 8.0}), nil); err == nil {
		t.Fatal("non-boolean expression must fail at eval")
	}
}
