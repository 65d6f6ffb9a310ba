package bio

import (
	"fmt"
	"math"
	"strings"
)

// ConditionLactating gates lactation pressure accrual. Accrual is never
// inferred from any other attribute.
const ConditionLactating = "Lactating"

type conditionDirection int

const (
	triggerBelow conditionDirection = iota
	triggerAbove
)

type conditionSpec struct {
	name       string
	metric     func(State) float64
	direction  conditionDirection
	trigger    float64
	recover    float64
	lifeThreat bool
}

// monitoredConditions is evaluated in order; life tiers come after their
// milder siblings so the trace reads worst-last.
func monitoredConditions() []conditionSpec {
	return []conditionSpec{
		{name: "Severe Dehydration", metric: func(s State) float64 { return s.Metabolism.Hydration }, direction: triggerBelow, trigger: 25, recover: 35},
		{name: "Critical Dehydration", metric: func(s State) float64 { return s.Metabolism.Hydration }, direction: triggerBelow, trigger: 5, recover: 15, lifeThreat: true},
		{name: "Ravenous", metric: func(s State) float64 { return s.Metabolism.Calories }, direction: triggerBelow, trigger: 25, recover: 35},
		{name: "Starving", metric: func(s State) float64 { return s.Metabolism.Calories }, direction: triggerBelow, trigger: 5, recover: 15, lifeThreat: true},
		{name: "Exhausted", metric: func(s State) float64 { return s.Metabolism.Stamina }, direction: triggerBelow, trigger: 15, recover: 30},
		{name: "Desperate Bladder", metric: func(s State) float64 { return s.Pressures.Bladder }, direction: triggerAbove, trigger: 95, recover: 70},
		{name: "Desperate Bowels", metric: func(s State) float64 { return s.Pressures.Bowels }, direction: triggerAbove, trigger: 95, recover: 70},
		{name: "Engorged", metric: func(s State) float64 { return s.Pressures.Lactation }, direction: triggerAbove, trigger: 80, recover: 50},
		{name: "Pent Up", metric: func(s State) float64 { return s.Pressures.Seminal }, direction: triggerAbove, trigger: 95, recover: 60},
	}
}

// TickInput is everything one biological step needs. The engine never reads
// global state.
type TickInput struct {
	State      State
	Elapsed    int64 // minutes
	Tension    int   // 0-100
	Ingestion  *Ingestion
	Conditions []string // character's current condition set
	Cleared    []string // conditions the player manually cleared this session
	Combat     bool
	NowMinute  int64 // absolute world minute after the clock advanced
}

// TickResult is a complete replacement for the biological state plus the
// condition churn the caller must apply to the character.
type TickResult struct {
	State       State
	Added       []string
	Removed     []string
	TraumaDelta int
	Trace       []string
}

// Engine evolves biological state. It is pure computation: same input, same
// output.
type Engine struct {
	Tuning Tuning
}

func NewEngine(t Tuning) Engine {
	return Engine{Tuning: t}
}

// Tick runs the fixed pass order: modifier ceilings, ingestion, drain,
// pressure accrual, threshold evaluation with grace, recovery hysteresis,
// accelerated modifier decay.
func (e Engine) Tick(in TickInput) TickResult {
	t := e.Tuning
	s := in.State
	hours := float64(in.Elapsed) / 60.0
	trace := []string{}

	// Ceiling pass. The delta merge clamps too; this closes the path where a
	// persisted state arrives with out-of-bounds multipliers.
	before := s.Modifiers
	s.Modifiers = t.ClampAll(s.Modifiers)
	if s.Modifiers != before {
		trace = append(trace, "modifiers clamped to governed range")
	}

	conditions := newConditionSet(in.Conditions)
	sleeping := false

	// Ingestion.
	if ing := in.Ingestion; ing != nil {
		if ing.Calories > 0 {
			s.Metabolism.Calories = capAt(s.Metabolism.Calories+ing.Calories/t.CaloriesPerPoint, 100)
			s.Timestamps.LastMealMinute = in.NowMinute
			trace = append(trace, fmt.Sprintf("ate %.0f kcal, calories now %.1f", ing.Calories, s.Metabolism.Calories))
		}
		if ing.Water > 0 {
			s.Metabolism.Hydration = capAt(s.Metabolism.Hydration+ing.Water, 100)
			trace = append(trace, fmt.Sprintf("drank, hydration now %.1f", s.Metabolism.Hydration))
		}
		if ing.SleepHours > 0 {
			sleeping = true
			s.Metabolism.Stamina = 100
			s.Timestamps.LastSleepMinute = in.NowMinute
			trace = append(trace, fmt.Sprintf("slept %.1fh, stamina restored", ing.SleepHours))
		}
		for _, p := range ing.Relieved {
			key := strings.ToLower(strings.TrimSpace(p))
			relievePressure(&s.Pressures, key)
			if key == "seminal" {
				s.Timestamps.LastClimaxMinute = in.NowMinute
				s.Metabolism.Libido = 0
			}
			trace = append(trace, "relieved "+key)
		}
	}

	// Drain.
	drainFactor := 1.0
	if sleeping {
		drainFactor = t.SleepDrainFactor
	}
	s.Metabolism.Calories = floorAt(s.Metabolism.Calories-t.CaloriesDrainPerHour*s.Modifiers.Calories*drainFactor*hours, 0)
	s.Metabolism.Hydration = floorAt(s.Metabolism.Hydration-t.HydrationDrainPerHour*s.Modifiers.Hydration*drainFactor*hours, 0)
	if !sleeping {
		staminaDrain := t.StaminaDrainPerHour * s.Modifiers.Stamina
		staminaDrain += tensionStaminaDrain(t, in.Tension)
		s.Metabolism.Stamina = floorAt(s.Metabolism.Stamina-staminaDrain*hours, 0)
	}
	s.Metabolism.Libido = capAt(s.Metabolism.Libido+t.LibidoRisePerHour*hours, 100)
	if hours > 0 {
		trace = append(trace, fmt.Sprintf("%.1fh passed: calories %.1f, hydration %.1f, stamina %.1f",
			hours, s.Metabolism.Calories, s.Metabolism.Hydration, s.Metabolism.Stamina))
	}

	// Pressure accrual.
	s.Pressures.Bladder = capAt(s.Pressures.Bladder+t.BladderRisePerHour*hours, 120)
	s.Pressures.Bowels = capAt(s.Pressures.Bowels+t.BowelsRisePerHour*hours, 120)
	s.Pressures.Seminal = capAt(s.Pressures.Seminal+t.SeminalRisePerHour*hours, 120)
	if conditions.has(ConditionLactating) {
		s.Pressures.Lactation = capAt(s.Pressures.Lactation+t.LactationRisePerHour*s.Modifiers.Lactation*hours, 120)
	}

	// Threshold evaluation with grace, then recovery hysteresis.
	cleared := newConditionSet(in.Cleared)
	added := []string{}
	removed := []string{}
	traumaDelta := 0
	for _, spec := range monitoredConditions() {
		value := spec.metric(s)
		active := conditions.has(spec.name)
		switch {
		case !active && spec.shouldTrigger(value, cleared.has(spec.name), t.GraceFactor):
			conditions.add(spec.name)
			added = append(added, spec.name)
			trace = append(trace, fmt.Sprintf("condition gained: %s (%.1f)", spec.name, value))
		case active && spec.hasRecovered(value):
			conditions.remove(spec.name)
			removed = append(removed, spec.name)
			trace = append(trace, fmt.Sprintf("condition cleared: %s (%.1f)", spec.name, value))
		}
		if spec.lifeThreat && conditions.has(spec.name) {
			increment := t.TraumaPerLifeThreatHour * int(math.Round(hours))
			if increment > 0 {
				traumaDelta += increment
				trace = append(trace, fmt.Sprintf("%s: +%d trauma", spec.name, increment))
			}
		}
	}

	// Accelerated decay outside combat.
	s.Modifiers = e.decayModifiers(s.Modifiers, hours, in.Combat, &trace)

	return TickResult{
		State:       s,
		Added:       added,
		Removed:     removed,
		TraumaDelta: traumaDelta,
		Trace:       trace,
	}
}

// shouldTrigger applies the grace buffer: a manually cleared condition gets a
// harder re-trigger threshold for the evaluation window. Life-threatening
// tiers ignore grace and always fire at their plain threshold.
func (c conditionSpec) shouldTrigger(value float64, graced bool, graceFactor float64) bool {
	threshold := c.trigger
	if graced && !c.lifeThreat {
		if c.direction == triggerBelow {
			threshold *= graceFactor
		} else {
			// Above-direction thresholds move the other way; capped just
			// under the pressure scale so they stay reachable.
			threshold = math.Min(threshold/graceFactor, 119)
		}
	}
	if c.direction == triggerBelow {
		return value < threshold
	}
	return value > threshold
}

// hasRecovered uses the separate recovery threshold so conditions do not
// flicker at the trigger boundary.
func (c conditionSpec) hasRecovered(value float64) bool {
	if c.direction == triggerBelow {
		return value > c.recover
	}
	return value < c.recover
}

func (e Engine) decayModifiers(m Modifiers, hours float64, combat bool, trace *[]string) Modifiers {
	t := e.Tuning
	step := t.ModifierDecayStepPerHour * hours
	if !combat {
		step *= t.ModifierDecayAccel
	}
	decay := func(v float64) float64 {
		if v <= t.ModifierDecayThreshold {
			return v
		}
		return math.Max(1.0, v-step)
	}
	out := Modifiers{
		Calories:  decay(m.Calories),
		Hydration: decay(m.Hydration),
		Stamina:   decay(m.Stamina),
		Lactation: decay(m.Lactation),
	}
	if out != m {
		*trace = append(*trace, "elevated modifiers decayed toward 1.0")
	}
	return out
}

func tensionStaminaDrain(t Tuning, tension int) float64 {
	if tension <= t.TensionDrainFloor {
		return 0
	}
	if tension > 100 {
		tension = 100
	}
	span := float64(100 - t.TensionDrainFloor)
	return t.TensionDrainMaxPerHour * float64(tension-t.TensionDrainFloor) / span
}

func relievePressure(p *Pressures, name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bladder":
		p.Bladder = 0
	case "bowels":
		p.Bowels = 0
	case "lactation":
		p.Lactation = 0
	case "seminal":
		p.Seminal = 0
	}
}

type conditionSet map[string]bool

func newConditionSet(names []string) conditionSet {
	set := conditionSet{}
	for _, n := range names {
		set.add(n)
	}
	return set
}

func (c conditionSet) key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }
func (c conditionSet) has(name string) bool   { return c[c.key(name)] }
func (c conditionSet) add(name string)        { c[c.key(name)] = true }
func (c conditionSet) remove(name string)     { delete(c, c.key(name)) }

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func floorAt(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
