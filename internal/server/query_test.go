package server

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobby/internal/types"
)

func TestParseFilter(t *testing.T) {
	pkg := 3000000
	tests := []struct {
		name  string
		query string
		want  types.Filter
	}{
		{name: "empty", query: "", want: types.Filter{}},
		{
			name:  "repeated and comma separated types keep order",
			query: "employment_type=parttime&employment_type=FULLTIME,PARTTIME,INTERNSHIP",
			want: types.Filter{EmploymentTypes: []types.EmploymentType{
				types.EmploymentPartTime, types.EmploymentFullTime, types.EmploymentInternship,
			}},
		},
		{
			name:  "package search and locations",
			query: "minimum_package=3000000&search=devops&location=Delhi&location=Delhi&location=Mumbai",
			want:  types.Filter{MinimumPackage: &pkg, Search: "devops", Locations: []string{"Delhi", "Mumbai"}},
		},
		{name: "blank package", query: "minimum_package=&employment_type=", want: types.Filter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got, err := parseFilter(q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	for _, query := range []string{"employment_type=REMOTE", "minimum_package=abc", "minimum_package=-1"} {
		t.Run(query, func(t *testing.T) {
			q, _ := url.ParseQuery(query)
			_, err := parseFilter(q)
			var validationErr *ErrValidation
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestJobsURL_RoundTrip(t *testing.T) {
	pkg := 1000000
	f := types.Filter{
		EmploymentTypes: []types.EmploymentType{types.EmploymentFreelance, types.EmploymentFullTime},
		MinimumPackage:  &pkg,
		Search:          "go",
		Locations:       []string{"Hyderabad"},
	}

	u, err := url.Parse(jobsURL(f, retryJobs))
	require.NoError(t, err)
	assert.Equal(t, "/jobs", u.Path)
	assert.Equal(t, retryJobs, u.Query().Get(qRetry))

	back, err := parseFilter(u.Query())
	require.NoError(t, err)
	assert.Equal(t, f, back)

	assert.Equal(t, "/jobs", jobsURL(types.Filter{}, ""))
}
