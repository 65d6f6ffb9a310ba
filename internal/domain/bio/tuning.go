package bio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every biological rate and bound as named, overridable
// configuration. The values themselves carry no derivation; they are the
// numbers the simulation was balanced around.
type Tuning struct {
	ModifierFloor float64 `yaml:"modifier_floor"`
	ModifierCap   float64 `yaml:"modifier_cap"`

	StaminaCeiling   float64 `yaml:"stamina_ceiling"`
	CaloriesCeiling  float64 `yaml:"calories_ceiling"`
	HydrationCeiling float64 `yaml:"hydration_ceiling"`
	LactationCeiling float64 `yaml:"lactation_ceiling"`

	CaloriesDrainPerHour  float64 `yaml:"calories_drain_per_hour"`
	HydrationDrainPerHour float64 `yaml:"hydration_drain_per_hour"`
	StaminaDrainPerHour   float64 `yaml:"stamina_drain_per_hour"`
	LibidoRisePerHour     float64 `yaml:"libido_rise_per_hour"`
	SleepDrainFactor      float64 `yaml:"sleep_drain_factor"`

	TensionDrainFloor      int     `yaml:"tension_drain_floor"`
	TensionDrainMaxPerHour float64 `yaml:"tension_drain_max_per_hour"`

	BladderRisePerHour   float64 `yaml:"bladder_rise_per_hour"`
	BowelsRisePerHour    float64 `yaml:"bowels_rise_per_hour"`
	LactationRisePerHour float64 `yaml:"lactation_rise_per_hour"`
	SeminalRisePerHour   float64 `yaml:"seminal_rise_per_hour"`

	CaloriesPerPoint float64 `yaml:"calories_per_point"`

	GraceFactor             float64 `yaml:"grace_factor"`
	TraumaPerLifeThreatHour int     `yaml:"trauma_per_life_threat_hour"`

	ModifierDecayStepPerHour float64 `yaml:"modifier_decay_step_per_hour"`
	ModifierDecayAccel       float64 `yaml:"modifier_decay_accel"`
	ModifierDecayThreshold   float64 `yaml:"modifier_decay_threshold"`
}

func DefaultTuning() Tuning {
	return Tuning{
		ModifierFloor: 0.25,
		ModifierCap:   4.0,

		StaminaCeiling:   1.5,
		CaloriesCeiling:  2.0,
		HydrationCeiling: 2.0,
		LactationCeiling: 2.0,

		CaloriesDrainPerHour:  1.5,
		HydrationDrainPerHour: 2.0,
		StaminaDrainPerHour:   2.0,
		LibidoRisePerHour:     0.3,
		SleepDrainFactor:      0.4,

		TensionDrainFloor:      70,
		TensionDrainMaxPerHour: 5.0,

		BladderRisePerHour:   3.0,
		BowelsRisePerHour:    1.5,
		LactationRisePerHour: 4.0,
		SeminalRisePerHour:   1.5,

		CaloriesPerPoint: 15.0,

		GraceFactor:             0.6,
		TraumaPerLifeThreatHour: 2,

		ModifierDecayStepPerHour: 0.05,
		ModifierDecayAccel:       3.0,
		ModifierDecayThreshold:   1.1,
	}
}

// LoadTuning reads a yaml override file on top of the defaults. Keys absent
// from the file keep their default values.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("bio tuning: %w", err)
	}
	return t, nil
}
