package minimax

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/board"
)

// threshold is an optional pruning bound. The zero value means no bound.
type threshold struct {
	value int
	set   bool
}

func bound(v int) threshold {
	return threshold{value: v, set: true}
}

// scoreKey is the exact memo key of a scoring call. The threshold is part
// of the key, so the same position searched under different bounds gets
// separate entries.
type scoreKey struct {
	b     board.Board
	side  board.Side
	bound threshold
}

// ScoreTable memoizes minimax scores for the lifetime of its owner. It is
// never trimmed; the full tic-tac-toe state space fits easily. Larger games
// would need an eviction policy here.
type ScoreTable struct {
	entries map[scoreKey]int

	lookups atomic.Uint64
	hits    atomic.Uint64
}

func NewScoreTable() *ScoreTable {
	return &ScoreTable{entries: make(map[scoreKey]int)}
}

func (t *ScoreTable) lookup(k scoreKey) (int, bool) {
	t.lookups.Add(1)
	v, ok := t.entries[k]
	if ok {
		t.hits.Add(1)
	}
	return v, ok
}

func (t *ScoreTable) store(k scoreKey, v int) {
	t.entries[k] = v
}

// Len returns the number of memoized entries.
func (t *ScoreTable) Len() int {
	return len(t.entries)
}

// Reset drops all entries and counters.
func (t *ScoreTable) Reset() {
	log.Debug().Int("entries", len(t.entries)).Msg("resetting-score-table")
	t.entries = make(map[scoreKey]int)
	t.lookups.Store(0)
	t.hits.Store(0)
}
