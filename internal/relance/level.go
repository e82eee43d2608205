// Package relance classifies unpaid contracts into reminder ("relance")
// urgency levels.
package relance

import "github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"

// Level is the reminder urgency of a contract.
type Level string

const (
	LevelNone  Level = "none"
	LevelTier1 Level = "tier1"
	LevelTier2 Level = "tier2"
	LevelTier3 Level = "tier3"
	LevelTier4 Level = "tier4"
)

// Default thresholds, in days, used when the agency has configured none.
const (
	DefaultT1 = 7
	DefaultT2 = 14
	DefaultT3 = 30
)

// Thresholds are the three day counts separating reminder levels.
type Thresholds struct {
	T1 int `json:"t1"`
	T2 int `json:"t2"`
	T3 int `json:"t3"`
}

// DefaultThresholds returns the 7/14/30 day thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{T1: DefaultT1, T2: DefaultT2, T3: DefaultT3}
}

// WithDefaults replaces unset (zero or negative) thresholds by their default.
func (t Thresholds) WithDefaults() Thresholds {
	if t.T1 <= 0 {
		t.T1 = DefaultT1
	}
	if t.T2 <= 0 {
		t.T2 = DefaultT2
	}
	if t.T3 <= 0 {
		t.T3 = DefaultT3
	}
	return t
}

// FromSettings reads the thresholds configured by the agency. Unset values
// stay zero; call WithDefaults to fill them.
func FromSettings(s models.AgencySettings) Thresholds {
	return Thresholds{T1: s.RelanceDays1, T2: s.RelanceDays2, T3: s.RelanceDays3}
}

// Override returns t with every positive field of o applied on top.
func (t Thresholds) Override(o Thresholds) Thresholds {
	if o.T1 > 0 {
		t.T1 = o.T1
	}
	if o.T2 > 0 {
		t.T2 = o.T2
	}
	if o.T3 > 0 {
		t.T3 = o.T3
	}
	return t
}

// Level classifies elapsedDays against the thresholds.
func (t Thresholds) Level(elapsedDays int) Level {
	return ComputeLevel(elapsedDays, t.T1, t.T2, t.T3)
}

// ComputeLevel classifies a number of elapsed days. Tier 3 is only reached on
// the exact day t3; every day after it is tier 4.
func ComputeLevel(elapsedDays, t1, t2, t3 int) Level {
	switch {
	case elapsedDays < t1:
		return LevelNone
	case elapsedDays < t2:
		return LevelTier1
	case elapsedDays < t3:
		return LevelTier2
	case elapsedDays == t3:
		return LevelTier3
	default:
		return LevelTier4
	}
}

// Rank orders levels from none (0) to tier 4 (4). Unknown levels rank -1.
func (l Level) Rank() int {
	switch l {
	case LevelNone:
		return 0
	case LevelTier1:
		return 1
	case LevelTier2:
		return 2
	case LevelTier3:
		return 3
	case LevelTier4:
		return 4
	}
	return -1
}
