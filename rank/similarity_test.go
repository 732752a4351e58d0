package rank

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/anirec/core"
)

func buildProfile(genres map[string]int, studios map[string]int, avgScore, avgPop float64) *core.TasteProfile {
	p := core.NewTasteProfile()
	for g, n := range genres {
		for i := 0; i < n; i++ {
			p.AddGenre(g)
		}
	}
	for s, n := range studios {
		for i := 0; i < n; i++ {
			p.AddStudio(s)
		}
	}
	p.AvgScore = avgScore
	p.AvgPopularity = avgPop
	return p
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestSimilarityNode_GenreScore(t *testing.T) {
	n := NewSimilarityNode(nil)
	// Mystery:2 Psychological:1 Thriller:1 → total 4
	p := buildProfile(map[string]int{"Mystery": 2, "Psychological": 1, "Thriller": 1}, nil, 7.0, 0)

	tests := []struct {
		name   string
		genres []string
		want   float64
	}{
		{
			name:   "no overlap scores zero",
			genres: []string{"Sports", "Comedy"},
			want:   0,
		},
		{
			name:   "single overlap no bonus",
			genres: []string{"Mystery"},
			want:   0.5, // 2/4
		},
		{
			name:   "double overlap gets mid bonus",
			genres: []string{"Psychological", "Thriller"},
			want:   0.25 + 0.25 + 0.3, // 1/4 + 1/4 + bonus2
		},
		{
			// 只取最高档奖励，不叠加
			name:   "triple overlap gets top bonus only, capped at 1",
			genres: []string{"Mystery", "Psychological", "Thriller"},
			want:   1.0, // 2/4 + 1/4 + 1/4 + bonus3(0.5) = 1.5 → cap 1.0
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &core.Anime{Genres: tt.genres}
			overlap := len(p.GenreOverlap(tt.genres))
			approx(t, "genreScore", n.genreScore(a, p, overlap), tt.want)
		})
	}
}

func TestSimilarityNode_RatingScore(t *testing.T) {
	n := NewSimilarityNode(nil)
	p := buildProfile(map[string]int{"Mystery": 1}, nil, 8.0, 0)
	w := n.Config.Weights.Rating

	tests := []struct {
		name    string
		score   float64
		overlap int
		want    float64
	}{
		{name: "very close", score: 8.3, overlap: 0, want: w},
		{name: "close", score: 8.9, overlap: 0, want: w * 0.8},
		{name: "moderate", score: 6.6, overlap: 0, want: w * 0.6},
		{name: "far", score: 6.1, overlap: 0, want: w * 0.4},
		{name: "too far but decent with overlap", score: 10.0, overlap: 1, want: w * 0.2},
		{name: "too far and no overlap", score: 10.0, overlap: 0, want: 0},
		{name: "unrated", score: 0, overlap: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &core.Anime{Score: tt.score}
			approx(t, "ratingScore", n.ratingScore(a, p, tt.overlap), tt.want)
		})
	}
}

func TestSimilarityNode_PopularityScore(t *testing.T) {
	n := NewSimilarityNode(nil)
	w := n.Config.Weights.Popularity

	t.Run("ratio path with baseline", func(t *testing.T) {
		p := buildProfile(nil, nil, 7.0, 0.01) // 基线 ≈ 排名 100
		a := &core.Anime{Popularity: 100}
		approx(t, "popularityScore", n.popularityScore(a, p), w) // 完全匹配 → ratio 1
	})

	t.Run("bucket path without baseline", func(t *testing.T) {
		p := buildProfile(nil, nil, 7.0, 0)
		tests := []struct {
			popularity int
			want       float64
		}{
			{popularity: 500, want: w * 0.8},
			{popularity: 3000, want: w * 0.6},
			{popularity: 8000, want: w * 0.4},
			{popularity: 99999, want: 0},
			{popularity: 0, want: 0},
		}
		for _, tt := range tests {
			a := &core.Anime{Popularity: tt.popularity}
			approx(t, "popularityScore", n.popularityScore(a, p), tt.want)
		}
	})
}

func TestSimilarityNode_StudioScore(t *testing.T) {
	n := NewSimilarityNode(nil)
	p := buildProfile(nil, map[string]int{"Madhouse": 2, "Bones": 1}, 7.0, 0)
	w := n.Config.Weights.Studio

	// 只计首个命中：Madhouse 计数 2 / 公司种类 2
	a := &core.Anime{Studios: []string{"Madhouse", "Bones"}}
	approx(t, "studioScore", n.studioScore(a, p), 2.0/2.0*w)

	if got := n.studioScore(&core.Anime{Studios: []string{"MAPPA"}}, p); got != 0 {
		t.Fatalf("studioScore for unknown studio = %v, want 0", got)
	}
}

func TestSimilarityNode_QualityBonus(t *testing.T) {
	n := NewSimilarityNode(nil)

	tests := []struct {
		name  string
		anime core.Anime
		want  float64
	}{
		{
			name:  "large audience and high rating",
			anime: core.Anime{Members: 100000, Score: 8.0, Popularity: 100},
			want:  0.04,
		},
		{
			name:  "hidden gem",
			anime: core.Anime{Members: 20000, Score: 7.2, Popularity: 5000},
			want:  0.01,
		},
		{
			name:  "all three",
			anime: core.Anime{Members: 100000, Score: 8.0, Popularity: 5000},
			want:  0.05,
		},
		{
			name:  "nothing",
			anime: core.Anime{Members: 100, Score: 6.0, Popularity: 50000},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approx(t, "qualityBonus", n.qualityBonus(&tt.anime), tt.want)
		})
	}
}

func TestSimilarityNode_Process(t *testing.T) {
	n := NewSimilarityNode(nil)
	p := buildProfile(
		map[string]int{"Mystery": 1, "Psychological": 1, "Thriller": 1},
		map[string]int{"Madhouse": 1},
		8.6, 0,
	)
	rctx := core.NewRecommendContext([]int64{1535}, p)

	items := []*core.Item{
		core.NewItem(&core.Anime{
			MALID: 40, Title: "Off-taste", Score: 6.0, Popularity: 50000,
			Genres: []string{"Sports"},
		}),
		core.NewItem(&core.Anime{
			MALID: 19, Title: "Monster", Score: 8.9, Popularity: 140, Members: 1200000,
			Genres: []string{"Mystery", "Psychological", "Drama"}, Studios: []string{"Madhouse"},
		}),
	}

	out, err := n.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// 按分数降序
	if out[0].ID() != 19 {
		t.Fatalf("best match = %d, want 19", out[0].ID())
	}
	if out[0].Score <= out[1].Score {
		t.Fatalf("scores not descending: %v, %v", out[0].Score, out[1].Score)
	}

	for _, it := range out {
		if it.Score < 0 || it.Score > 1 {
			t.Fatalf("score %v outside [0,1]", it.Score)
		}
	}

	// 主类型 = 首个与画像重叠的类型；无重叠时取条目首个类型
	if out[0].PrimaryGenre != "Mystery" {
		t.Fatalf("PrimaryGenre = %q, want Mystery", out[0].PrimaryGenre)
	}
	if out[1].PrimaryGenre != "Sports" {
		t.Fatalf("PrimaryGenre = %q, want Sports", out[1].PrimaryGenre)
	}
}

func TestSimilarityNode_ClampAtOne(t *testing.T) {
	cfg := core.DefaultEngineConfig()
	cfg.GenreBonus3 = 5.0 // 人为推高，验证钳制
	n := NewSimilarityNode(cfg)

	p := buildProfile(map[string]int{"A": 1, "B": 1, "C": 1}, map[string]int{"S": 1}, 8.0, 0)
	rctx := core.NewRecommendContext(nil, p)

	items := []*core.Item{core.NewItem(&core.Anime{
		MALID: 1, Score: 8.0, Popularity: 500, Members: 100000,
		Genres: []string{"A", "B", "C"}, Studios: []string{"S"},
	})}

	out, err := n.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out[0].Score != 1.0 {
		t.Fatalf("Score = %v, want clamp at 1.0", out[0].Score)
	}
}
