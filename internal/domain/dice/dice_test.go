package dice

import "testing"

func TestOutcomeBandsAreExact(t *testing.T) {
	cases := []struct {
		total int
		want  Outcome
	}{
		{-3, OutcomeCriticalFailure},
		{1, OutcomeCriticalFailure},
		{2, OutcomeFailure},
		{7, OutcomeFailure},
		{8, OutcomeMixedCost},
		{11, OutcomeMixedCost},
		{12, OutcomeSuccess},
		{16, OutcomeSuccess},
		{17, OutcomeStrongSuccess},
		{19, OutcomeStrongSuccess},
		{20, OutcomeCriticalSuccess},
		{27, OutcomeCriticalSuccess},
	}
	for _, tc := range cases {
		if got := OutcomeForTotal(tc.total); got != tc.want {
			t.Fatalf("total %d = %s, want %s", tc.total, got, tc.want)
		}
	}
}

func TestExecuteIsDeterministicPerSeed(t *testing.T) {
	a := NewRoller(42).Execute(3, false, false, nil)
	b := NewRoller(42).Execute(3, false, false, nil)
	if a != b {
		t.Fatalf("same seed produced different rolls: %+v vs %+v", a, b)
	}
	if a.Total != a.Die+3 {
		t.Fatalf("total %d, want die %d + bonus 3", a.Total, a.Die)
	}
}

func TestAdvantageTakesMaxDisadvantageTakesMin(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		adv := NewRoller(seed).Execute(0, true, false, nil)
		if adv.SecondDie != 0 && adv.Die < adv.SecondDie {
			t.Fatalf("seed %d: advantage kept %d over %d", seed, adv.Die, adv.SecondDie)
		}
		dis := NewRoller(seed).Execute(0, false, true, nil)
		if dis.SecondDie != 0 && dis.Die > dis.SecondDie {
			t.Fatalf("seed %d: disadvantage kept %d over %d", seed, dis.Die, dis.SecondDie)
		}
	}
}

func TestStatsTrackMeanAndCrits(t *testing.T) {
	stats := Stats{}
	roller := NewRoller(7)
	sum := 0
	for i := 0; i < 50; i++ {
		r := roller.Execute(0, false, false, &stats)
		sum += r.Total
	}
	if stats.Count != 50 {
		t.Fatalf("count = %d, want 50", stats.Count)
	}
	wantMean := float64(sum) / 50
	if diff := stats.MeanTotal - wantMean; diff > 0.0001 || diff < -0.0001 {
		t.Fatalf("mean = %f, want %f", stats.MeanTotal, wantMean)
	}
	histTotal := 0
	for _, n := range stats.ByOutcome {
		histTotal += n
	}
	if histTotal != 50 {
		t.Fatalf("histogram total = %d, want 50", histTotal)
	}
}
