/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Contract holds every numeric threshold of the TVK/HTV rule set. A single
// immutable value is threaded through the calculator and all rule
// evaluators; concurrent computations may share one instance.
type Contract struct {
	Orchestra   OrchestraConfig   `yaml:"orchestra"`
	TVK         TVKConfig         `yaml:"tvk"`
	HTV         HTVConfig         `yaml:"htv"`
	Calculation CalculationConfig `yaml:"calculation"`
}

// OrchestraConfig identifies the ensemble and its holiday region.
type OrchestraConfig struct {
	Name  string `yaml:"name"`
	State string `yaml:"state"` // German federal state code, e.g. "SN"
}

// TVKConfig carries the standard-mode (TVK) limits.
type TVKConfig struct {
	MaxPerWeek                float64 `yaml:"max_per_week"`
	MaxPerDay                 float64 `yaml:"max_per_day"`
	FreeSundaysPerHalfSeason  float64 `yaml:"free_sundays_per_half_season"`
	DailyRestHours            float64 `yaml:"daily_rest_hours"`
	SameDayBreakMinutes       float64 `yaml:"same_day_break_minutes"`
	EarliestRehearsalStart    string  `yaml:"earliest_rehearsal_start"` // "09:30"
	LatestRehearsalEnd        string  `yaml:"latest_rehearsal_end"`     // "22:00"
}

// HTVConfig carries the extended-mode (HTV) deviations. When Active is
// false every HTV-gated rule and calculator branch is skipped.
type HTVConfig struct {
	Active          bool                  `yaml:"active"`
	MaxPerWeek      float64               `yaml:"max_per_week"`
	Academy         AcademyConfig         `yaml:"academy"`
	ChildrenConcert ChildrenConfig        `yaml:"children_concert"`
	DoubleDuty      DoubleDutyConfig      `yaml:"double_duty"`
	Escalation      EscalationConfig      `yaml:"escalation"`
	BalancingPeriod BalancingPeriodConfig `yaml:"balancing_period"`
}

// AcademyConfig is the tiered academy-duty valuation.
type AcademyConfig struct {
	Tier1MaxHours float64 `yaml:"tier_1_max_hours"`
	Tier2MaxHours float64 `yaml:"tier_2_max_hours"`
	Tier1Duties   float64 `yaml:"tier_1_duties"`
	Tier2Duties   float64 `yaml:"tier_2_duties"`
	Tier3Duties   float64 `yaml:"tier_3_duties"`
}

// ChildrenConfig values identical back-to-back children's concerts.
type ChildrenConfig struct {
	BackToBackMaxMinutes float64 `yaml:"back_to_back_max_minutes"`
	BackToBackDuties     float64 `yaml:"back_to_back_duties"`
}

// DoubleDutyConfig caps two combined rehearsals as one double duty.
type DoubleDutyConfig struct {
	MaxCombinedMinutes float64 `yaml:"max_combined_minutes"`
}

// EscalationConfig reduces the week following an over-threshold week.
type EscalationConfig struct {
	TriggerThreshold   float64 `yaml:"trigger_threshold"`
	ReducedMaxNextWeek float64 `yaml:"reduced_max_next_week"`
}

// BalancingPeriodConfig describes the fixed 24-week audit windows.
type BalancingPeriodConfig struct {
	Weeks          int     `yaml:"weeks"`
	MaxDuties      float64 `yaml:"max_duties"`
	TransferDuties float64 `yaml:"transfer_duties"`
	Period1Start   string  `yaml:"period_1_start"` // ISO date of the first Monday
}

// CalculationConfig parameterizes the duty-value calculator.
type CalculationConfig struct {
	ShortRehearsalMaxMinutes float64  `yaml:"short_rehearsal_max_minutes"`
	WarmupPlusConcert        float64  `yaml:"warmup_plus_concert"`
	ChildrenConcertDouble    float64  `yaml:"children_concert_double"`
	ConductingCourseFullDay  float64  `yaml:"conducting_course_full_day"`
	PodcastRecording         float64  `yaml:"podcast_recording"`
	BusSurcharge             float64  `yaml:"bus_surcharge"`
	MiscExcludeKeywords      []string `yaml:"misc_exclude_keywords"`
}

// DefaultContract returns the contract thresholds compiled into the binary.
// These are the documented fall-back values; a YAML override replaces only
// the keys it names.
func DefaultContract() *Contract {
	return &Contract{
		Orchestra: OrchestraConfig{
			Name:  "Sächsische Bläserphilharmonie",
			State: "SN",
		},
		TVK: TVKConfig{
			MaxPerWeek:               8,
			MaxPerDay:                2,
			FreeSundaysPerHalfSeason: 8,
			DailyRestHours:           11,
			SameDayBreakMinutes:      90,
			EarliestRehearsalStart:   "09:30",
			LatestRehearsalEnd:       "22:00",
		},
		HTV: HTVConfig{
			Active:     true,
			MaxPerWeek: 10,
			Academy: AcademyConfig{
				Tier1MaxHours: 3,
				Tier2MaxHours: 6,
				Tier1Duties:   1,
				Tier2Duties:   2,
				Tier3Duties:   3,
			},
			ChildrenConcert: ChildrenConfig{
				BackToBackMaxMinutes: 180,
				BackToBackDuties:     1,
			},
			DoubleDuty: DoubleDutyConfig{
				MaxCombinedMinutes: 270,
			},
			Escalation: EscalationConfig{
				TriggerThreshold:   10,
				ReducedMaxNextWeek: 9,
			},
			BalancingPeriod: BalancingPeriodConfig{
				Weeks:          24,
				MaxDuties:      183,
				TransferDuties: 9,
				Period1Start:   "2026-08-17",
			},
		},
		Calculation: CalculationConfig{
			ShortRehearsalMaxMinutes: 180,
			WarmupPlusConcert:        1.5,
			ChildrenConcertDouble:    1.5,
			ConductingCourseFullDay:  2,
			PodcastRecording:         2,
			BusSurcharge:             0.5,
			MiscExcludeKeywords: []string{
				"stadtmusik", "orchestertag", "ostinato", "treffen", "betriebsärzt",
			},
		},
	}
}

// LoadContract merges a YAML file over the compiled defaults. An empty path
// returns the defaults unchanged.
func LoadContract(path string) (*Contract, error) {
	contract := DefaultContract()
	if path == "" {
		return contract, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contract config: %w", err)
	}
	// Unmarshalling into the default value keeps every key the file does
	// not mention at its default.
	if err := yaml.Unmarshal(data, contract); err != nil {
		return nil, fmt.Errorf("parse contract config: %w", err)
	}
	return contract, nil
}

// MaxWeeklyDuties returns the effective weekly limit for the active mode.
func (c *Contract) MaxWeeklyDuties() float64 {
	if c.HTV.Active {
		return c.HTV.MaxPerWeek
	}
	return c.TVK.MaxPerWeek
}

// ModeLabel names the active rule set.
func (c *Contract) ModeLabel() string {
	if c.HTV.Active {
		return "HTV"
	}
	return "TVK"
}
