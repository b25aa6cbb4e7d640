// Package types provides the records, enums and requests shared by the jobby client.
package types

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EmploymentType is an employment type tag understood by the jobs API.
type EmploymentType string

const (
	// EmploymentFullTime is a full time position
	EmploymentFullTime EmploymentType = "FULLTIME"
	// EmploymentPartTime is a part time position
	EmploymentPartTime EmploymentType = "PARTTIME"
	// EmploymentFreelance is a freelance engagement
	EmploymentFreelance EmploymentType = "FREELANCE"
	// EmploymentInternship is an internship
	EmploymentInternship EmploymentType = "INTERNSHIP"
)

// Option is a selectable filter value with its display label.
type Option[T any] struct {
	Value T
	Label string
}

// EmploymentTypeOptions lists the employment types in display order.
func EmploymentTypeOptions() []Option[EmploymentType] {
	return []Option[EmploymentType]{
		{Value: EmploymentFullTime, Label: "Full Time"},
		{Value: EmploymentPartTime, Label: "Part Time"},
		{Value: EmploymentFreelance, Label: "Freelance"},
		{Value: EmploymentInternship, Label: "Internship"},
	}
}

// SalaryRangeOptions lists the minimum package floors offered by the listing screen.
func SalaryRangeOptions() []Option[int] {
	floors := []int{1000000, 2000000, 3000000, 4000000}
	out := make([]Option[int], 0, len(floors))
	for _, f := range floors {
		out = append(out, Option[int]{Value: f, Label: fmt.Sprintf("%d LPA and above", f/100000)})
	}
	return out
}

// LocationOptions lists the locations offered by the client-side location filter.
func LocationOptions() []string {
	return []string{"Hyderabad", "Bangalore", "Chennai", "Delhi", "Mumbai"}
}

// ParseEmploymentType parses a tag, case-insensitively.
func ParseEmploymentType(s string) (EmploymentType, error) {
	t := EmploymentType(strings.ToUpper(strings.TrimSpace(s)))
	for _, opt := range EmploymentTypeOptions() {
		if opt.Value == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown employment type %q", s)
}

// Filter is the combined selection applied to the job list.
// EmploymentTypes and Locations are ordered sets: selection order is kept
// so the same selection always serializes the same way.
type Filter struct {
	EmploymentTypes []EmploymentType `validate:"dive,oneof=FULLTIME PARTTIME FREELANCE INTERNSHIP"`
	MinimumPackage  *int             `validate:"omitempty,gte=0"`
	Search          string
	Locations       []string `validate:"dive,required"`
}

// Validate validates the Filter using the validator.
func (f Filter) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}

// Clone returns a deep copy of the filter.
func (f Filter) Clone() Filter {
	out := Filter{
		EmploymentTypes: slices.Clone(f.EmploymentTypes),
		Search:          f.Search,
		Locations:       slices.Clone(f.Locations),
	}
	if f.MinimumPackage != nil {
		v := *f.MinimumPackage
		out.MinimumPackage = &v
	}
	return out
}

// HasEmploymentType reports whether t is selected.
func (f Filter) HasEmploymentType(t EmploymentType) bool {
	return slices.Contains(f.EmploymentTypes, t)
}

// HasLocation reports whether loc is selected.
func (f Filter) HasLocation(loc string) bool {
	return slices.Contains(f.Locations, loc)
}

// WithEmploymentType returns a copy with t added (checked) or removed.
func (f Filter) WithEmploymentType(t EmploymentType, checked bool) Filter {
	out := f.Clone()
	out.EmploymentTypes = toggle(out.EmploymentTypes, t, checked)
	return out
}

// WithLocation returns a copy with loc added (checked) or removed.
func (f Filter) WithLocation(loc string, checked bool) Filter {
	out := f.Clone()
	out.Locations = toggle(out.Locations, loc, checked)
	return out
}

// SameServerSelection reports whether both filters produce the same list request.
// Locations are applied client-side and do not take part.
func (f Filter) SameServerSelection(o Filter) bool {
	if !slices.Equal(f.EmploymentTypes, o.EmploymentTypes) {
		return false
	}
	if strings.TrimSpace(f.Search) != strings.TrimSpace(o.Search) {
		return false
	}
	switch {
	case f.MinimumPackage == nil && o.MinimumPackage == nil:
		return true
	case f.MinimumPackage == nil || o.MinimumPackage == nil:
		return false
	default:
		return *f.MinimumPackage == *o.MinimumPackage
	}
}

// SameLocations reports whether both filters select the same locations, ignoring order.
func (f Filter) SameLocations(o Filter) bool {
	if len(f.Locations) != len(o.Locations) {
		return false
	}
	for _, l := range f.Locations {
		if !o.HasLocation(l) {
			return false
		}
	}
	return true
}

// MatchLocation reports whether a job passes the location selection.
// An empty selection matches everything.
func (f Filter) MatchLocation(job JobSummary) bool {
	return len(f.Locations) == 0 || f.HasLocation(job.Location)
}

func toggle[T comparable](set []T, v T, checked bool) []T {
	idx := slices.Index(set, v)
	switch {
	case checked && idx < 0:
		return append(set, v)
	case !checked && idx >= 0:
		return slices.Delete(set, idx, idx+1)
	default:
		return set
	}
}
