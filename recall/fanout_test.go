package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/anirec/core"
)

type stubSource struct {
	name  string
	items []*core.Item
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string  { return s.name }
func (s *stubSource) Group() string { return "genre" }

func (s *stubSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.items, s.err
}

func TestFanout_FailedSourceDegradesToEmptySlot(t *testing.T) {
	f := &Fanout{Sources: []Source{
		&stubSource{name: "ok1", items: []*core.Item{core.NewItem(&core.Anime{MALID: 1})}},
		&stubSource{name: "broken", err: errors.New("upstream down")},
		&stubSource{name: "ok2", items: []*core.Item{core.NewItem(&core.Anime{MALID: 2})}},
	}}

	slots := f.Collect(context.Background(), nil)
	if len(slots) != 3 {
		t.Fatalf("slots = %d, want 3", len(slots))
	}
	if len(slots[0]) != 1 || len(slots[2]) != 1 {
		t.Fatalf("healthy sources must keep their results: %v", slots)
	}
	if len(slots[1]) != 0 {
		t.Fatalf("failed source slot = %d items, want empty", len(slots[1]))
	}
}

func TestFanout_SlowSourceTimesOutAlone(t *testing.T) {
	f := &Fanout{
		Timeout: 20 * time.Millisecond,
		Sources: []Source{
			&stubSource{name: "fast", items: []*core.Item{core.NewItem(&core.Anime{MALID: 1})}},
			&stubSource{name: "slow", delay: time.Second,
				items: []*core.Item{core.NewItem(&core.Anime{MALID: 2})}},
		},
	}

	slots := f.Collect(context.Background(), nil)
	if len(slots[0]) != 1 {
		t.Fatalf("fast source lost its result: %v", slots)
	}
	if len(slots[1]) != 0 {
		t.Fatalf("slow source must time out to an empty slot, got %d items", len(slots[1]))
	}
}

func TestFanout_SlotsFollowSourceOrder(t *testing.T) {
	f := &Fanout{
		MaxConcurrent: 2,
		Sources: []Source{
			&stubSource{name: "a", delay: 30 * time.Millisecond,
				items: []*core.Item{core.NewItem(&core.Anime{MALID: 1})}},
			&stubSource{name: "b",
				items: []*core.Item{core.NewItem(&core.Anime{MALID: 2})}},
		},
	}

	items := f.Run(context.Background(), nil)
	if len(items) != 2 || items[0].ID() != 1 || items[1].ID() != 2 {
		t.Fatalf("merge must follow source order regardless of completion order: %v", items)
	}
}
