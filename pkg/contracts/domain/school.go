package domain

import "sort"

// SchoolID identifies one participating school by its display name.
// The display name is also the key used in data file names and workbook
// sheet names, so it is kept verbatim (Korean, NFC-normalized).
type SchoolID string

// School describes one experimental growing condition: a school and the
// nominal EC setpoint (target electrical conductivity) assigned to it.
// The target EC is configuration, not a measured value.
type School struct {
	ID       SchoolID `json:"id" yaml:"name" validate:"required"`
	TargetEC float64  `json:"target_ec" yaml:"target_ec" validate:"gt=0"`
	Color    string   `json:"color,omitempty" yaml:"color"`
}

// SchoolSet is the closed, immutable set of schools in the experiment.
type SchoolSet struct {
	schools []School
	byID    map[SchoolID]School
}

// NewSchoolSet builds a SchoolSet from the configured schools, ordered by
// ascending target EC for deterministic iteration.
func NewSchoolSet(schools []School) *SchoolSet {
	ordered := make([]School, len(schools))
	copy(ordered, schools)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].TargetEC < ordered[j].TargetEC
	})

	byID := make(map[SchoolID]School, len(ordered))
	for _, s := range ordered {
		byID[s.ID] = s
	}

	return &SchoolSet{schools: ordered, byID: byID}
}

// All returns the schools in ascending target-EC order.
func (s *SchoolSet) All() []School {
	out := make([]School, len(s.schools))
	copy(out, s.schools)
	return out
}

// TargetEC returns the EC setpoint for a school, and whether the school is
// part of the experiment.
func (s *SchoolSet) TargetEC(id SchoolID) (float64, bool) {
	school, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	return school.TargetEC, true
}

// Contains reports whether the school is part of the experiment.
func (s *SchoolSet) Contains(id SchoolID) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of schools in the set.
func (s *SchoolSet) Len() int {
	return len(s.schools)
}
