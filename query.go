package swrast

import "sync/atomic"

// OcclusionQuery accumulates the number of samples that pass every
// per-fragment test across the draws it is attached to. Workers count
// into per-cluster slots; the scheduler folds them into the query when
// each draw retires, so Result is exact after Synchronize.
//
// A draw that renders nothing deterministically contributes 0.
type OcclusionQuery struct {
	count atomic.Int64
}

// Reset clears the accumulated count; the begin of a query scope.
func (q *OcclusionQuery) Reset() {
	q.count.Store(0)
}

// Result returns the samples counted so far. Call Synchronize first for
// a final value.
func (q *OcclusionQuery) Result() int64 {
	return q.count.Load()
}
