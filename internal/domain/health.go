package domain

import "time"

// WeightEntry is a single logged body-weight measurement.
type WeightEntry struct {
	ID         string    `json:"id"`
	WeightKg   float64   `json:"weight_kg"`
	RecordedAt time.Time `json:"recorded_at"`
	Notes      string    `json:"notes,omitempty"`
}

// NewWeightEntry creates a weight log entry.
func NewWeightEntry(weightKg float64, recordedAt time.Time, notes string) *WeightEntry {
	return &WeightEntry{
		ID:         generateID(),
		WeightKg:   weightKg,
		RecordedAt: recordedAt,
		Notes:      notes,
	}
}

// HealthMetric is a logged vital-sign reading (glucose, ketones, blood
// pressure and so on, identified by Kind).
type HealthMetric struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	RecordedAt time.Time `json:"recorded_at"`
	Notes      string    `json:"notes,omitempty"`
}

// NewHealthMetric creates a metric reading.
func NewHealthMetric(kind string, value float64, unit string, recordedAt time.Time) *HealthMetric {
	return &HealthMetric{
		ID:         generateID(),
		Kind:       kind,
		Value:      value,
		Unit:       unit,
		RecordedAt: recordedAt,
	}
}

// Profile holds the user's editable profile fields.
type Profile struct {
	Name           string  `json:"name"`
	HeightCm       float64 `json:"height_cm"`
	TargetWeightKg float64 `json:"target_weight_kg"`
	Timezone       string  `json:"timezone"`
}
