package reason

import (
	"context"
	"testing"

	"github.com/rushteam/anirec/core"
)

func TestGenerate(t *testing.T) {
	userGenres := []string{"Mystery", "Psychological", "Thriller"}
	userStudios := []string{"Madhouse"}

	tests := []struct {
		name  string
		anime core.Anime
		want  string
	}{
		{
			name: "single genre match",
			anime: core.Anime{
				Genres: []string{"Mystery", "Drama"},
			},
			want: "Similar Mystery genre",
		},
		{
			name: "multiple genre matches take first two",
			anime: core.Anime{
				Genres: []string{"Mystery", "Psychological", "Thriller"},
			},
			want: "Shares Mystery, Psychological genres",
		},
		{
			name: "all clauses joined",
			anime: core.Anime{
				Genres:     []string{"Mystery", "Psychological"},
				Studios:    []string{"Madhouse"},
				Score:      8.9,
				Popularity: 50,
			},
			want: "Shares Mystery, Psychological genres • From Madhouse studio • Highly rated • Very popular",
		},
		{
			name: "well rated and popular choice tiers",
			anime: core.Anime{
				Score:      8.2,
				Popularity: 300,
			},
			want: "Well rated • Popular choice",
		},
		{
			name:  "nothing matches falls back",
			anime: core.Anime{Genres: []string{"Sports"}, Score: 6.0, Popularity: 9999},
			want:  FallbackReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(&tt.anime, userGenres, userStudios); got != tt.want {
				t.Fatalf("Generate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNode_WritesReasonLabel(t *testing.T) {
	p := core.NewTasteProfile()
	p.AddGenre("Mystery")
	rctx := core.NewRecommendContext(nil, p)

	items := []*core.Item{
		core.NewItem(&core.Anime{MALID: 1, Genres: []string{"Mystery"}}),
		core.NewItem(&core.Anime{MALID: 2, Genres: []string{"Sports"}}),
	}

	n := &Node{}
	out, err := n.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Process = %d items, want 2 (reason node never drops)", len(out))
	}

	lbl, ok := out[0].GetLabel("reason")
	if !ok || lbl.Value != "Similar Mystery genre" {
		t.Fatalf("reason label = %+v", lbl)
	}

	lbl, ok = out[1].GetLabel("reason")
	if !ok || lbl.Value != FallbackReason {
		t.Fatalf("fallback reason label = %+v", lbl)
	}
}
