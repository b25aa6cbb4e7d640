package server

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/jonathan/jobby/internal/types"
)

// Query parameters of GET /jobs.
const (
	qEmploymentType = "employment_type"
	qMinimumPackage = "minimum_package"
	qSearch         = "search"
	qLocation       = "location"
	qRetry          = "retry"
)

// Values of the retry parameter.
const (
	retryJobs    = "jobs"
	retryProfile = "profile"
)

// parseFilter reads a filter selection from /jobs query parameters.
// employment_type and location repeat; employment_type also accepts a
// comma-separated list.
func parseFilter(q url.Values) (types.Filter, error) {
	var f types.Filter

	for _, raw := range q[qEmploymentType] {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			t, err := types.ParseEmploymentType(part)
			if err != nil {
				return types.Filter{}, &ErrValidation{Field: qEmploymentType, Message: err.Error()}
			}
			if !slices.Contains(f.EmploymentTypes, t) {
				f.EmploymentTypes = append(f.EmploymentTypes, t)
			}
		}
	}

	if raw := strings.TrimSpace(q.Get(qMinimumPackage)); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return types.Filter{}, &ErrValidation{Field: qMinimumPackage, Message: "must be a non-negative integer"}
		}
		f.MinimumPackage = &v
	}

	f.Search = q.Get(qSearch)

	for _, loc := range q[qLocation] {
		loc = strings.TrimSpace(loc)
		if loc != "" && !slices.Contains(f.Locations, loc) {
			f.Locations = append(f.Locations, loc)
		}
	}

	if err := f.Validate(); err != nil {
		return types.Filter{}, &ErrValidation{Field: "filter", Message: err.Error()}
	}
	return f, nil
}

// filterValues is the inverse of parseFilter.
func filterValues(f types.Filter) url.Values {
	q := url.Values{}
	for _, t := range f.EmploymentTypes {
		q.Add(qEmploymentType, string(t))
	}
	if f.MinimumPackage != nil {
		q.Set(qMinimumPackage, strconv.Itoa(*f.MinimumPackage))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set(qSearch, s)
	}
	for _, loc := range f.Locations {
		q.Add(qLocation, loc)
	}
	return q
}

// jobsURL builds a /jobs link for f, optionally asking for a retry.
func jobsURL(f types.Filter, retry string) string {
	q := filterValues(f)
	if retry != "" {
		q.Set(qRetry, retry)
	}
	if len(q) == 0 {
		return "/jobs"
	}
	return "/jobs?" + q.Encode()
}
