// Package minimax finds the best move for a tic-tac-toe position with an
// exhaustive minimax search. Results are written to a durable move cache, so
// each position is searched at most once over the life of the cache.
package minimax

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/buendia/tictactoe/board"
	"github.com/buendia/tictactoe/cache"
	"github.com/buendia/tictactoe/move"
)

var ErrTerminalBoard = errors.New("game is already over on this board")

// Score values. The maximizer plays x.
const (
	WinA = 1
	Draw = 0
	WinB = -1
)

// Searcher is anything that can produce a best move for a position.
type Searcher interface {
	BestMove(b board.Board, side board.Side) (move.Move, error)
}

type Solver struct {
	store    cache.Store
	table    *ScoreTable
	randIntn func(n int) int

	searches  atomic.Uint64
	logStream io.Writer
}

type Option func(*Solver)

// WithRandIntn replaces the random source used to pick the seed move.
func WithRandIntn(f func(n int) int) Option {
	return func(s *Solver) { s.randIntn = f }
}

// WithScoreTable lets several solvers share one table.
func WithScoreTable(t *ScoreTable) Option {
	return func(s *Solver) { s.table = t }
}

func NewSolver(store cache.Store, opts ...Option) *Solver {
	s := &Solver{
		store:    store,
		table:    NewScoreTable(),
		randIntn: frand.Intn,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetLogStream makes every slow-path search write a YAML record to w. Pass
// nil to turn it off.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

type Stats struct {
	Lookups  uint64 `yaml:"lookups" json:"lookups"`
	Hits     uint64 `yaml:"hits" json:"hits"`
	Entries  int    `yaml:"entries" json:"entries"`
	Searches uint64 `yaml:"searches" json:"searches"`
}

func (s *Solver) Stats() Stats {
	return Stats{
		Lookups:  s.table.lookups.Load(),
		Hits:     s.table.hits.Load(),
		Entries:  s.table.Len(),
		Searches: s.searches.Load(),
	}
}

// ScoreTable returns the solver's memo table.
func (s *Solver) ScoreTable() *ScoreTable {
	return s.table
}

type logCandidate struct {
	Move  string `yaml:"move"`
	Score int    `yaml:"score"`
}

type logSearch struct {
	Key        string         `yaml:"key"`
	Seed       string         `yaml:"seed"`
	Candidates []logCandidate `yaml:"candidates"`
	Chosen     string         `yaml:"chosen"`
	Score      int            `yaml:"score"`
	Elapsed    time.Duration  `yaml:"elapsed"`
}

// BestMove returns the best move for side on b. A cached answer is returned
// as is. Otherwise one legal move is picked at random as the seed, and every
// legal move in scan order then replaces the running best only if it scores
// strictly better for side. The result is written to the cache before it is
// returned.
func (s *Solver) BestMove(b board.Board, side board.Side) (move.Move, error) {
	if b.IsTerminal() {
		return move.Move{}, ErrTerminalBoard
	}
	key := cache.Key(b, side)
	m, ok, err := s.store.Get(key)
	if err != nil {
		return move.Move{}, fmt.Errorf("reading move cache: %w", err)
	}
	if ok {
		return m, nil
	}
	log.Debug().Str("key", key).Msg("cache-miss")

	start := time.Now()
	s.searches.Add(1)
	moves := b.LegalMoves()
	best := moves[s.randIntn(len(moves))]
	bestScore := s.score(b.MustApply(best, side), side.Opponent(), threshold{})

	var entry *logSearch
	if s.logStream != nil {
		entry = &logSearch{Key: key, Seed: best.String()}
	}
	for _, m := range moves {
		v := s.score(b.MustApply(m, side), side.Opponent(), bound(bestScore))
		if entry != nil {
			entry.Candidates = append(entry.Candidates, logCandidate{Move: m.String(), Score: v})
		}
		if better(side, v, bestScore) {
			best, bestScore = m, v
		}
	}

	if entry != nil {
		entry.Chosen = best.String()
		entry.Score = bestScore
		entry.Elapsed = time.Since(start)
		s.writeLog(entry)
	}
	if err := s.store.Set(key, best); err != nil {
		return move.Move{}, fmt.Errorf("writing move cache: %w", err)
	}
	return best, nil
}

// Score returns the exact minimax value of b with side to move.
func (s *Solver) Score(b board.Board, side board.Side) int {
	return s.score(b, side, threshold{})
}

func (s *Solver) writeLog(entry *logSearch) {
	out, err := yaml.Marshal([]*logSearch{entry})
	if err != nil {
		log.Error().Err(err).Msg("marshalling search log")
		return
	}
	if _, err := s.logStream.Write(out); err != nil {
		log.Error().Err(err).Msg("writing search log")
	}
}

func (s *Solver) score(b board.Board, side board.Side, t threshold) int {
	k := scoreKey{b: b, side: side, bound: t}
	if v, ok := s.table.lookup(k); ok {
		return v
	}
	v := s.evaluate(b, side, t)
	s.table.store(k, v)
	return v
}

func (s *Solver) evaluate(b board.Board, side board.Side, t threshold) int {
	switch b.FindWinner() {
	case board.MarkA:
		return WinA
	case board.MarkB:
		return WinB
	}
	if b.IsFull() {
		return Draw
	}
	var running threshold
	for _, m := range b.LegalMoves() {
		v := s.score(b.MustApply(m, side), side.Opponent(), running)
		// cutoff: the parent will not prefer this node
		if t.set && !better(side, t.value, v) {
			return v
		}
		if !running.set || better(side, v, running.value) {
			running = bound(v)
		}
	}
	return running.value
}

// better reports whether a is strictly better than b for side.
func better(side board.Side, a, b int) bool {
	if side == board.Maximizer {
		return a > b
	}
	return a < b
}
