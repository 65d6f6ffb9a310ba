package inmemory

import "sync"

type Snapshot struct {
	TurnTotal        uint64  `json:"turn_total"`
	TurnSuccess      uint64  `json:"turn_success"`
	TurnConflict     uint64  `json:"turn_conflict"`
	TurnFailure      uint64  `json:"turn_failure"`
	ThreatsAdmitted  uint64  `json:"threats_admitted"`
	ThreatsRejected  uint64  `json:"threats_rejected"`
	RejectionPercent float64 `json:"rejection_percent"`
}

type Recorder struct {
	mu       sync.Mutex
	success  uint64
	conflict uint64
	failure  uint64
	admitted uint64
	rejected uint64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordTurn() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) RecordAdmission(admitted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if admitted {
		r.admitted++
	} else {
		r.rejected++
	}
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TurnSuccess:     r.success,
		TurnConflict:    r.conflict,
		TurnFailure:     r.failure,
		TurnTotal:       r.success + r.conflict + r.failure,
		ThreatsAdmitted: r.admitted,
		ThreatsRejected: r.rejected,
	}
	if total := r.admitted + r.rejected; total > 0 {
		out.RejectionPercent = float64(r.rejected) / float64(total) * 100
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
