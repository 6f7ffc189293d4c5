package game

import "github.com/HeJian358/BeastyBarOnline/internal/domain"

// GateCapacity is the queue length that triggers a settlement.
const GateCapacity = 5

// Settlement describes one 2/2/1 split of a full gate.
type Settlement struct {
	Scored    []domain.QueueEntry `json:"scored"`
	Discarded []domain.QueueEntry `json:"discarded"`
}

// Settle performs the gate split when queue holds exactly GateCapacity
// entries: the first two enter the bar, the next two stay in line and
// the last one is thrown out. Any other length is returned unchanged
// with a nil settlement. The input slice is never modified.
func Settle(queue []domain.QueueEntry) ([]domain.QueueEntry, *Settlement) {
	if len(queue) != GateCapacity {
		return queue, nil
	}
	s := &Settlement{
		Scored:    append([]domain.QueueEntry(nil), queue[0:2]...),
		Discarded: append([]domain.QueueEntry(nil), queue[4:5]...),
	}
	return append([]domain.QueueEntry(nil), queue[2:4]...), s
}
