package game

import (
	"reflect"
	"testing"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
)

func TestSettleFullGate(t *testing.T) {
	queue := []domain.QueueEntry{
		entry("q1", domain.KindLion, "a"),
		entry("q2", domain.KindSeal, "b"),
		entry("q3", domain.KindZebra, "a"),
		entry("q4", domain.KindMonkey, "b"),
		entry("q5", domain.KindSnake, "a"),
	}
	before := uids(queue)

	rest, s := Settle(queue)
	if s == nil {
		t.Fatalf("expected a settlement")
	}
	if got := uids(s.Scored); !reflect.DeepEqual(got, []string{"q1", "q2"}) {
		t.Fatalf("scored = %v", got)
	}
	if got := uids(s.Discarded); !reflect.DeepEqual(got, []string{"q5"}) {
		t.Fatalf("discarded = %v", got)
	}
	if got := uids(rest); !reflect.DeepEqual(got, []string{"q3", "q4"}) {
		t.Fatalf("remaining = %v", got)
	}
	if !reflect.DeepEqual(uids(queue), before) {
		t.Fatalf("input queue mutated: %v", uids(queue))
	}

	again, s2 := Settle(queue)
	if !reflect.DeepEqual(again, rest) || !reflect.DeepEqual(s2, s) {
		t.Fatalf("settlement is not deterministic")
	}
}

func TestSettleNoop(t *testing.T) {
	for n := 0; n <= 6; n++ {
		if n == GateCapacity {
			continue
		}
		queue := make([]domain.QueueEntry, 0, n)
		for i := 0; i < n; i++ {
			queue = append(queue, entry(string(rune('a'+i)), domain.KindSeal, "x"))
		}
		rest, s := Settle(queue)
		if s != nil {
			t.Fatalf("len %d: unexpected settlement", n)
		}
		if len(rest) != n {
			t.Fatalf("len %d: got %d entries back", n, len(rest))
		}
	}
}
