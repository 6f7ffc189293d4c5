package game

import (
	"reflect"
	"testing"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
)

func entry(uid string, k domain.Kind, owner string) domain.QueueEntry {
	return domain.QueueEntry{Card: domain.NewCard(uid, k), OwnerID: owner}
}

func uids(q []domain.QueueEntry) []string {
	out := make([]string, 0, len(q))
	for _, e := range q {
		out = append(out, e.Card.UID)
	}
	return out
}

func TestResolveSkill(t *testing.T) {
	cases := []struct {
		name        string
		queue       []domain.QueueEntry
		extra       domain.MoveExtra
		want        []string
		wantRemoved []string
	}{
		{
			name: "skunk drives off the lion",
			queue: []domain.QueueEntry{
				entry("lion", domain.KindLion, "a"),
				entry("skunk", domain.KindSkunk, "b"),
			},
			want:        []string{"skunk"},
			wantRemoved: []string{"lion"},
		},
		{
			name: "skunk removes every tied strongest animal",
			queue: []domain.QueueEntry{
				entry("zebra-a", domain.KindZebra, "a"),
				entry("seal", domain.KindSeal, "b"),
				entry("zebra-b", domain.KindZebra, "b"),
				entry("skunk", domain.KindSkunk, "a"),
			},
			want:        []string{"seal", "skunk"},
			wantRemoved: []string{"zebra-a", "zebra-b"},
		},
		{
			name: "skunk ignores other skunks",
			queue: []domain.QueueEntry{
				entry("skunk-a", domain.KindSkunk, "a"),
				entry("skunk-b", domain.KindSkunk, "b"),
			},
			want: []string{"skunk-a", "skunk-b"},
		},
		{
			name: "parrot removes its target",
			queue: []domain.QueueEntry{
				entry("a", domain.KindSeal, "x"),
				entry("b", domain.KindSnake, "y"),
				entry("c", domain.KindMonkey, "x"),
				entry("parrot", domain.KindParrot, "y"),
			},
			extra:       domain.MoveExtra{TargetUID: "b"},
			want:        []string{"a", "c", "parrot"},
			wantRemoved: []string{"b"},
		},
		{
			name: "parrot with missing target is a no-op",
			queue: []domain.QueueEntry{
				entry("a", domain.KindSeal, "x"),
				entry("parrot", domain.KindParrot, "y"),
			},
			extra: domain.MoveExtra{TargetUID: "gone"},
			want:  []string{"a", "parrot"},
		},
		{
			name: "kangaroo jumps two",
			queue: []domain.QueueEntry{
				entry("giraffe", domain.KindGiraffe, "x"),
				entry("zebra", domain.KindZebra, "x"),
				entry("snake", domain.KindSnake, "y"),
				entry("kanga", domain.KindKangaroo, "y"),
			},
			extra: domain.MoveExtra{Jump: 2},
			want:  []string{"giraffe", "kanga", "zebra", "snake"},
		},
		{
			name: "kangaroo is clamped at the front",
			queue: []domain.QueueEntry{
				entry("lion", domain.KindLion, "x"),
				entry("kanga", domain.KindKangaroo, "y"),
			},
			extra: domain.MoveExtra{Jump: 2},
			want:  []string{"kanga", "lion"},
		},
		{
			name: "kangaroo alone stays put",
			queue: []domain.QueueEntry{
				entry("kanga", domain.KindKangaroo, "y"),
			},
			extra: domain.MoveExtra{Jump: 1},
			want:  []string{"kanga"},
		},
		{
			name: "plain animal has no effect",
			queue: []domain.QueueEntry{
				entry("seal", domain.KindSeal, "x"),
				entry("lion", domain.KindLion, "y"),
			},
			want: []string{"seal", "lion"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			played := tc.queue[len(tc.queue)-1]
			got, removed := ResolveSkill(tc.queue, played, tc.extra)
			if !reflect.DeepEqual(uids(got), tc.want) {
				t.Fatalf("queue = %v; want %v", uids(got), tc.want)
			}
			if len(tc.wantRemoved) == 0 {
				if len(removed) != 0 {
					t.Fatalf("removed = %v; want none", uids(removed))
				}
				return
			}
			if !reflect.DeepEqual(uids(removed), tc.wantRemoved) {
				t.Fatalf("removed = %v; want %v", uids(removed), tc.wantRemoved)
			}
		})
	}
}

func TestResolveSkillIsPure(t *testing.T) {
	queue := []domain.QueueEntry{
		entry("giraffe", domain.KindGiraffe, "x"),
		entry("zebra", domain.KindZebra, "x"),
		entry("snake", domain.KindSnake, "y"),
		entry("kanga", domain.KindKangaroo, "y"),
	}
	before := uids(queue)
	played := queue[len(queue)-1]
	extra := domain.MoveExtra{Jump: 2}

	first, _ := ResolveSkill(queue, played, extra)
	second, _ := ResolveSkill(queue, played, extra)

	if !reflect.DeepEqual(uids(queue), before) {
		t.Fatalf("input queue mutated: %v", uids(queue))
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input gave %v and %v", uids(first), uids(second))
	}
}

func TestResolveSkillPanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an unknown kind")
		}
	}()
	bogus := domain.QueueEntry{Card: domain.Card{UID: "x", Kind: domain.Kind(42)}}
	ResolveSkill([]domain.QueueEntry{bogus}, bogus, domain.MoveExtra{})
}
