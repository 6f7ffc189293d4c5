package game

import (
	"fmt"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
)

// ResolveSkill applies the side effect of the card that was just
// enqueued at the tail of queue. The input slice is never modified; the
// returned queue is a fresh slice and removed lists every entry the
// skill took out of the line.
func ResolveSkill(queue []domain.QueueEntry, played domain.QueueEntry, extra domain.MoveExtra) (next, removed []domain.QueueEntry) {
	next = append([]domain.QueueEntry(nil), queue...)

	switch played.Card.Kind {
	case domain.KindSkunk:
		return skunk(next)
	case domain.KindParrot:
		return parrot(next, extra.TargetUID)
	case domain.KindKangaroo:
		return kangaroo(next, extra.Jump), nil
	case domain.KindMonkey,
		domain.KindChameleon,
		domain.KindSeal,
		domain.KindZebra,
		domain.KindGiraffe,
		domain.KindSnake,
		domain.KindHippo,
		domain.KindCrocodile,
		domain.KindLion:
		return next, nil
	default:
		panic(fmt.Sprintf("no skill rule for card kind %d", uint8(played.Card.Kind)))
	}
}

// skunk drives off every strongest non-skunk animal.
func skunk(queue []domain.QueueEntry) (kept, removed []domain.QueueEntry) {
	maxPower := 0
	for _, e := range queue {
		if e.Card.Kind != domain.KindSkunk && e.Card.Power > maxPower {
			maxPower = e.Card.Power
		}
	}
	if maxPower <= 1 {
		return queue, nil
	}

	kept = queue[:0:0]
	for _, e := range queue {
		if e.Card.Kind != domain.KindSkunk && e.Card.Power == maxPower {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	return kept, removed
}

func parrot(queue []domain.QueueEntry, targetUID string) (kept, removed []domain.QueueEntry) {
	if targetUID == "" {
		return queue, nil
	}
	for i, e := range queue {
		if e.Card.UID == targetUID {
			removed = []domain.QueueEntry{e}
			kept = append(queue[:i:i], queue[i+1:]...)
			return kept, removed
		}
	}
	return queue, nil
}

// kangaroo moves the tail entry forward by jump places, clamped at the front.
func kangaroo(queue []domain.QueueEntry, jump int) []domain.QueueEntry {
	if len(queue) == 0 || jump <= 0 {
		return queue
	}
	tail := len(queue) - 1
	target := max(0, tail-jump)
	if target >= tail {
		return queue
	}
	moved := queue[tail]
	copy(queue[target+1:], queue[target:tail])
	queue[target] = moved
	return queue
}
