package dice

import "math/rand"

// Outcome is the band a resolved roll total falls into.
type Outcome int

const (
	OutcomeCriticalFailure Outcome = iota
	OutcomeFailure
	OutcomeMixedCost
	OutcomeSuccess
	OutcomeStrongSuccess
	OutcomeCriticalSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCriticalFailure:
		return "CRITICAL FAILURE"
	case OutcomeFailure:
		return "FAILURE"
	case OutcomeMixedCost:
		return "MIXED/COST"
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeStrongSuccess:
		return "STRONG SUCCESS"
	case OutcomeCriticalSuccess:
		return "CRITICAL SUCCESS"
	default:
		return "UNKNOWN"
	}
}

// OutcomeForTotal maps a roll total to its band. Bounds are inclusive.
func OutcomeForTotal(total int) Outcome {
	switch {
	case total <= 1:
		return OutcomeCriticalFailure
	case total <= 7:
		return OutcomeFailure
	case total <= 11:
		return OutcomeMixedCost
	case total <= 16:
		return OutcomeSuccess
	case total <= 19:
		return OutcomeStrongSuccess
	default:
		return OutcomeCriticalSuccess
	}
}

// Roll is the result of a single executed roll.
type Roll struct {
	Die          int     `json:"die"`
	SecondDie    int     `json:"second_die,omitempty"`
	Bonus        int     `json:"bonus"`
	Total        int     `json:"total"`
	Advantage    bool    `json:"advantage,omitempty"`
	Disadvantage bool    `json:"disadvantage,omitempty"`
	Outcome      Outcome `json:"-"`
	OutcomeLabel string  `json:"outcome"`
}

// Stats accumulates across a session. It lives inside the persisted world
// state so the running numbers survive turns.
type Stats struct {
	Count             int            `json:"count"`
	CriticalSuccesses int            `json:"critical_successes"`
	CriticalFailures  int            `json:"critical_failures"`
	MeanTotal         float64        `json:"mean_total"`
	ByOutcome         map[string]int `json:"by_outcome,omitempty"`
}

func (s *Stats) record(r Roll) {
	s.Count++
	s.MeanTotal += (float64(r.Total) - s.MeanTotal) / float64(s.Count)
	switch r.Outcome {
	case OutcomeCriticalSuccess:
		s.CriticalSuccesses++
	case OutcomeCriticalFailure:
		s.CriticalFailures++
	}
	if s.ByOutcome == nil {
		s.ByOutcome = map[string]int{}
	}
	s.ByOutcome[r.Outcome.String()]++
}

// Roller draws d20s from an injectable random source so tests can seed it.
type Roller struct {
	rng *rand.Rand
}

func NewRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// Execute draws one d20, a second under advantage/disadvantage (taking
// max/min respectively), adds the bonus, and updates stats in place.
func (r *Roller) Execute(bonus int, advantage, disadvantage bool, stats *Stats) Roll {
	roll := Roll{Bonus: bonus, Advantage: advantage, Disadvantage: disadvantage}
	roll.Die = r.rng.Intn(20) + 1
	if advantage || disadvantage {
		roll.SecondDie = r.rng.Intn(20) + 1
		chosen := roll.Die
		if advantage && roll.SecondDie > chosen {
			chosen = roll.SecondDie
		}
		if disadvantage && roll.SecondDie < chosen {
			chosen = roll.SecondDie
		}
		roll.Die, roll.SecondDie = chosen, roll.Die
	}
	roll.Total = roll.Die + roll.Bonus
	roll.Outcome = OutcomeForTotal(roll.Total)
	roll.OutcomeLabel = roll.Outcome.String()
	if stats != nil {
		stats.record(roll)
	}
	return roll
}
