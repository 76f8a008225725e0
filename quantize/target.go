package quantize

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/katalvlaran/nauert/qevent"
	"github.com/katalvlaran/nauert/qgrid"
	"github.com/katalvlaran/nauert/searchtree"
)

// TargetBeat is one beat of the timeline: its absolute span in
// milliseconds, the settings in force, the events that start inside it,
// and the search results.
type TargetBeat struct {
	beatspan *big.Rat
	offset   *big.Rat
	duration *big.Rat
	tempo    qevent.Tempo
	tree     searchtree.SearchTree
	events   []*qevent.Event
	grids    []*qgrid.Grid
	grid     *qgrid.Grid
}

// NewTargetBeat builds a beat starting at offsetMS whose length is
// beatspan (a note value) at tempo.
//
// Errors: ErrInvalidSchema, ErrNilSearchTree.
func NewTargetBeat(beatspan, offsetMS *big.Rat, tempo qevent.Tempo, tree searchtree.SearchTree) (*TargetBeat, error) {
	if beatspan == nil || beatspan.Sign() <= 0 {
		return nil, fmt.Errorf("%w: beatspan %v", ErrInvalidSchema, beatspan)
	}
	if offsetMS == nil || offsetMS.Sign() < 0 {
		return nil, fmt.Errorf("%w: offset %v", ErrInvalidSchema, offsetMS)
	}
	if err := tempo.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if tree == nil {
		return nil, ErrNilSearchTree
	}

	return &TargetBeat{
		beatspan: new(big.Rat).Set(beatspan),
		offset:   new(big.Rat).Set(offsetMS),
		duration: tempo.DurationToMilliseconds(beatspan),
		tempo:    tempo,
		tree:     tree,
	}, nil
}

// Beatspan returns the beat's note value.
func (b *TargetBeat) Beatspan() *big.Rat { return new(big.Rat).Set(b.beatspan) }

// OffsetMS returns the beat's absolute start.
func (b *TargetBeat) OffsetMS() *big.Rat { return new(big.Rat).Set(b.offset) }

// DurationMS returns the beat's absolute length.
func (b *TargetBeat) DurationMS() *big.Rat { return new(big.Rat).Set(b.duration) }

// Tempo returns the tempo in force.
func (b *TargetBeat) Tempo() qevent.Tempo { return b.tempo }

// SearchTree returns the beat's search tree.
func (b *TargetBeat) SearchTree() searchtree.SearchTree { return b.tree }

// Events returns a copy of the events bucketed into this beat.
func (b *TargetBeat) Events() []*qevent.Event { return append([]*qevent.Event(nil), b.events...) }

// AddEvents appends events to the beat.
func (b *TargetBeat) AddEvents(events ...*qevent.Event) {
	b.events = append(b.events, events...)
}

// Grids returns a copy of the candidate grids found for the beat.
func (b *TargetBeat) Grids() []*qgrid.Grid { return append([]*qgrid.Grid(nil), b.grids...) }

// SetGrids replaces the candidate grids, typically with a job's results.
func (b *TargetBeat) SetGrids(grids []*qgrid.Grid) {
	b.grids = append([]*qgrid.Grid(nil), grids...)
}

// Grid returns the selected grid; nil until a heuristic has run.
func (b *TargetBeat) Grid() *qgrid.Grid { return b.grid }

// SetGrid installs the selected grid; used by Heuristic implementations.
func (b *TargetBeat) SetGrid(g *qgrid.Grid) { b.grid = g }

// Job returns a job over the beat's events normalized to [offset,
// offset+duration], or nil when the beat holds no events.
//
// Errors: qevent.ErrProxyOutOfRange if an event lies outside the beat.
func (b *TargetBeat) Job(id int) (*Job, error) {
	if len(b.events) == 0 {
		return nil, nil
	}
	end := new(big.Rat).Add(b.offset, b.duration)
	proxies := make([]*qevent.Proxy, 0, len(b.events))
	var (
		e   *qevent.Event
		p   *qevent.Proxy
		err error
	)
	for _, e = range b.events {
		if p, err = qevent.NewProxyInSpan(e, b.offset, end); err != nil {
			return nil, fmt.Errorf("quantize: beat %s: %w", b.offset.RatString(), err)
		}
		proxies = append(proxies, p)
	}

	return NewJob(id, b.tree, proxies)
}

// BeatSchema holds constant quantization settings: every beat spans
// Beatspan at Tempo and is searched with SearchTree. MaxBeats, when
// positive, bounds how many beats Beats may lay out.
type BeatSchema struct {
	Beatspan   *big.Rat
	Tempo      qevent.Tempo
	SearchTree searchtree.SearchTree
	MaxBeats   int
}

// DefaultBeatSchema returns quarter-note beats at quarter = 60 (1000 ms per
// beat) searched with Nauert's unweighted tree.
func DefaultBeatSchema() BeatSchema {
	return BeatSchema{
		Beatspan: big.NewRat(1, 4),
		Tempo: qevent.Tempo{
			ReferenceDuration: big.NewRat(1, 4),
			UnitsPerMinute:    big.NewRat(60, 1),
		},
		SearchTree: searchtree.DefaultUnweighted(),
	}
}

// Validate reports ErrInvalidSchema or ErrNilSearchTree.
func (s BeatSchema) Validate() error {
	if s.Beatspan == nil || s.Beatspan.Sign() <= 0 {
		return fmt.Errorf("%w: beatspan %v", ErrInvalidSchema, s.Beatspan)
	}
	if s.MaxBeats < 0 {
		return fmt.Errorf("%w: max beats %d", ErrInvalidSchema, s.MaxBeats)
	}
	if err := s.Tempo.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if s.SearchTree == nil {
		return ErrNilSearchTree
	}

	return nil
}

// Beats lays beats back to back from 0 while the next start is ≤ totalMS,
// so an event exactly at totalMS still has a beat to land in.
//
// Errors: ErrInvalidSchema (including more than MaxBeats beats), ErrNilSearchTree.
func (s BeatSchema) Beats(totalMS *big.Rat) ([]*TargetBeat, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.MaxBeats > 0 && totalMS.Sign() >= 0 {
		// floor(total / duration) + 1 beats start at or before totalMS.
		q := new(big.Rat).Quo(totalMS, s.Tempo.DurationToMilliseconds(s.Beatspan))
		count := new(big.Int).Quo(q.Num(), q.Denom())
		if count.Cmp(big.NewInt(int64(s.MaxBeats))) >= 0 {
			return nil, fmt.Errorf("%w: %s beats exceed limit %d", ErrInvalidSchema, count.Add(count, big.NewInt(1)), s.MaxBeats)
		}
	}
	var (
		beats  []*TargetBeat
		b      *TargetBeat
		err    error
		offset = new(big.Rat)
	)
	for offset.Cmp(totalMS) <= 0 {
		if b, err = NewTargetBeat(s.Beatspan, offset, s.Tempo, s.SearchTree); err != nil {
			return nil, err
		}
		beats = append(beats, b)
		offset.Add(offset, b.duration)
	}

	return beats, nil
}

// Partition builds the beats covering seq and buckets every event, the
// terminal included, into the last beat starting at or before it.
func (s BeatSchema) Partition(seq *qevent.Sequence) ([]*TargetBeat, error) {
	if seq == nil {
		return nil, ErrNilSequence
	}
	beats, err := s.Beats(seq.Duration())
	if err != nil {
		return nil, err
	}
	starts := make([]*big.Rat, len(beats))
	var i int
	for i = range beats {
		starts[i] = beats[i].offset
	}
	var (
		e   *qevent.Event
		off *big.Rat
		idx int
	)
	for _, e = range seq.Events() {
		off = e.Offset()
		// bisect right: first beat starting strictly after the event.
		idx = sort.Search(len(starts), func(k int) bool { return starts[k].Cmp(off) > 0 })
		beats[idx-1].events = append(beats[idx-1].events, e)
	}

	return beats, nil
}
