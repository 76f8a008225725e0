// Package quantize runs the rhythm quantization search over a sequence of
// events and picks one QGrid per beat.
//
// Pipeline:
//
//	qevent.Sequence
//	   │  BeatSchema.Partition   (bisect-right over beat start offsets)
//	   ▼
//	[]*TargetBeat ── Job(id) ──▶ []*Job
//	                               │  JobHandler.Handle (serial or parallel)
//	                               ▼
//	                   every reachable QGrid per beat
//	                               │  Heuristic.Select
//	                               ▼
//	                   one QGrid per beat ─▶ downbeat shift ─▶ Result
//
// A Job owns one beat's proxies and search tree. Execute seeds a trivial
// grid with the proxies and drains a stack worklist through
// searchtree.Expand until no grid yields children, collecting every grid
// it saw (the seed included). The search is exhaustive by design; its
// size is bounded only by the search tree definition.
//
// Jobs share no mutable state, so ParallelHandler runs them on a bounded
// errgroup and returns them ordered by ID, exactly like SerialHandler.
//
// Observability: jobs and runs report Prometheus metrics (nauert_*),
// open OpenTelemetry spans on the global tracer provider, and log through
// a logrus.FieldLogger at debug level. Each Quantize run gets a UUID.
//
// Errors:
//
//   - ErrNilSequence     if Quantize receives a nil sequence.
//   - ErrNilSearchTree   if a job or schema lacks a search tree.
//   - ErrInvalidSchema   if a schema's beatspan or tempo is not positive, or
//     its beats would exceed MaxBeats.
//   - ErrNoBeats         if a heuristic receives an empty beat list.
//   - ErrNilBeat         if a heuristic receives a nil beat.
//   - ErrInvalidOption   if options are inconsistent (nil handler, workers < 1, …).
//   - context errors     if the context ends while jobs are running.
package quantize
