package jobsapi

import (
	"strconv"
	"strings"

	"github.com/jonathan/jobby/internal/types"
)

// Query parameter names of GET /jobs.
const (
	ParamEmploymentType = "employment_type"
	ParamMinimumPackage = "minimum_package"
	ParamSearch         = "search"
)

// JobListQuery serializes a filter selection into list query parameters.
// All three keys are always present; unset values are empty strings.
// Employment types are joined in selection order.
func JobListQuery(f types.Filter) map[string]string {
	tags := make([]string, 0, len(f.EmploymentTypes))
	for _, t := range f.EmploymentTypes {
		tags = append(tags, string(t))
	}

	minimum := ""
	if f.MinimumPackage != nil {
		minimum = strconv.Itoa(*f.MinimumPackage)
	}

	return map[string]string{
		ParamEmploymentType: strings.Join(tags, ","),
		ParamMinimumPackage: minimum,
		ParamSearch:         strings.TrimSpace(f.Search),
	}
}
