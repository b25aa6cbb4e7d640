package listing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobby/internal/jobsapi"
	"github.com/jonathan/jobby/internal/types"
	"github.com/jonathan/jobby/internal/view"
)

// fakeAPI records every list request as the query it would send.
type fakeAPI struct {
	mu       sync.Mutex
	queries  []map[string]string
	tokens   []string
	jobs     []types.JobSummary
	err      error
	profile  types.Profile
	profErr  error
	profiles int
	// block, when set, is waited on inside ListJobs
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeAPI) ListJobs(ctx context.Context, token string, filter types.Filter) ([]types.JobSummary, error) {
	f.mu.Lock()
	f.queries = append(f.queries, jobsapi.JobListQuery(filter))
	f.tokens = append(f.tokens, token)
	jobs, err, block, entered := f.jobs, f.err, f.block, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return jobs, err
}

func (f *fakeAPI) Profile(ctx context.Context, token string) (types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles++
	return f.profile, f.profErr
}

func (f *fakeAPI) calls() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.queries...)
}

var sampleJobs = []types.JobSummary{
	{ID: "1", Title: "Backend", Location: "Delhi"},
	{ID: "2", Title: "Frontend", Location: "Mumbai"},
	{ID: "3", Title: "Data", Location: "Delhi"},
}

func TestController_EachMutationFetchesOnce(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	c := NewController(api, "tok")
	ctx := context.Background()

	c.ToggleEmploymentType(ctx, types.EmploymentFullTime, true)
	pkg := 2000000
	c.SetMinimumPackage(ctx, &pkg)
	c.SetSearchInput("go")
	c.SubmitSearch(ctx)

	calls := api.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "FULLTIME", calls[0]["employment_type"])
	assert.Equal(t, "2000000", calls[1]["minimum_package"])
	assert.Equal(t, "go", calls[2]["search"])
	assert.Equal(t, "FULLTIME", calls[2]["employment_type"])
}

func TestController_SearchInputDoesNotFetch(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	c := NewController(api, "tok")

	c.SetSearchInput("devops")
	assert.Empty(t, api.calls())
	assert.Equal(t, "devops", c.Filter().Search)
}

func TestController_SelectThenDeselect(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	c := NewController(api, "tok")
	ctx := context.Background()

	c.ToggleEmploymentType(ctx, types.EmploymentFullTime, true)
	c.ToggleEmploymentType(ctx, types.EmploymentFullTime, false)

	calls := api.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "FULLTIME", calls[0]["employment_type"])
	assert.Equal(t, "", calls[1]["employment_type"])
}

func TestController_InitialLoadSendsEmptyParams(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	c := NewController(api, "tok")

	status := c.Load(context.Background())
	assert.Equal(t, view.StatusLoaded, status)

	// second Load is a no-op
	c.Load(context.Background())

	calls := api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]string{"employment_type": "", "minimum_package": "", "search": ""}, calls[0])
	assert.Equal(t, []string{"tok"}, api.tokens)
}

func TestController_LocationToggleRederivesWithoutFetch(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	c := NewController(api, "tok")
	c.Load(context.Background())

	c.ToggleLocation("Delhi", true)
	v := c.View()
	require.Len(t, v.Jobs, 2)
	assert.Equal(t, "1", v.Jobs[0].ID)
	assert.Equal(t, "3", v.Jobs[1].ID)

	c.ToggleLocation("Mumbai", true)
	assert.Len(t, c.View().Jobs, 3)

	c.ToggleLocation("Delhi", false)
	c.ToggleLocation("Mumbai", false)
	assert.Len(t, c.View().Jobs, 3)

	assert.Len(t, api.calls(), 1)
}

func TestController_EmptyIsNotFailure(t *testing.T) {
	api := &fakeAPI{jobs: []types.JobSummary{}}
	c := NewController(api, "tok")
	c.Load(context.Background())

	v := c.View()
	assert.Equal(t, view.StatusLoaded, v.Status)
	assert.True(t, v.Empty)
	assert.False(t, v.Failed())
	assert.NoError(t, v.Err)
}

func TestController_LocationCanEmptyTheList(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	c := NewController(api, "tok")
	c.Load(context.Background())

	c.ToggleLocation("Chennai", true)
	v := c.View()
	assert.True(t, v.Empty)
	assert.Empty(t, v.Jobs)
}

func TestController_FailureAndRetry(t *testing.T) {
	api := &fakeAPI{err: &jobsapi.RequestError{Resource: "jobs", StatusCode: 500}}
	c := NewController(api, "tok")
	ctx := context.Background()

	c.ToggleEmploymentType(ctx, types.EmploymentInternship, true)
	v := c.View()
	assert.True(t, v.Failed())
	assert.False(t, v.Empty)
	assert.True(t, jobsapi.IsRequestFailed(v.Err))

	api.mu.Lock()
	api.err = nil
	api.jobs = sampleJobs
	api.mu.Unlock()

	status, err := c.Retry(ctx)
	require.NoError(t, err)
	assert.Equal(t, view.StatusLoaded, status)

	calls := api.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1])
}

func TestController_RetryBeforeLoad(t *testing.T) {
	c := NewController(&fakeAPI{}, "tok")
	_, err := c.Retry(context.Background())
	assert.ErrorIs(t, err, view.ErrNothingToRetry)
}

func TestController_LoadingBeforeResultsLand(t *testing.T) {
	api := &fakeAPI{
		jobs:    sampleJobs,
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	c := NewController(api, "tok")

	done := make(chan view.Status)
	go func() {
		done <- c.ToggleEmploymentType(context.Background(), types.EmploymentPartTime, true)
	}()

	<-api.entered
	assert.True(t, c.View().Loading())
	assert.Empty(t, c.View().Jobs)

	close(api.block)
	assert.Equal(t, view.StatusLoaded, <-done)
	assert.Len(t, c.View().Jobs, 3)
}

func TestController_Apply(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	c := NewController(api, "tok")
	ctx := context.Background()

	// first use fetches even with an empty selection
	assert.True(t, c.Apply(ctx, types.Filter{}))
	// arriving again with the same selection reloads
	assert.True(t, c.Apply(ctx, types.Filter{}))
	// location-only change re-derives
	assert.False(t, c.Apply(ctx, types.Filter{Locations: []string{"Mumbai"}}))
	assert.Len(t, c.View().Jobs, 1)
	// server-side change fetches
	assert.True(t, c.Apply(ctx, types.Filter{
		EmploymentTypes: []types.EmploymentType{types.EmploymentFreelance},
		Locations:       []string{"Mumbai"},
	}))

	calls := api.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, calls[0], calls[1])
	assert.Equal(t, "FREELANCE", calls[2]["employment_type"])
	assert.Equal(t, []string{"Mumbai"}, c.View().Filter.Locations)
}

func TestController_ApplyReloadsFailedList(t *testing.T) {
	api := &fakeAPI{err: errors.New("jobs down")}
	c := NewController(api, "tok")
	ctx := context.Background()

	c.Apply(ctx, types.Filter{Locations: []string{"Delhi"}})
	require.True(t, c.View().Failed())

	api.mu.Lock()
	api.err, api.jobs = nil, sampleJobs
	api.mu.Unlock()
	assert.True(t, c.Apply(ctx, types.Filter{Locations: []string{"Delhi"}}))

	v := c.View()
	assert.Equal(t, view.StatusLoaded, v.Status)
	assert.Len(t, v.Jobs, 2)
	assert.Len(t, api.calls(), 2)
}

func TestController_Sync(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	c := NewController(api, "tok")
	ctx := context.Background()

	assert.True(t, c.Sync(ctx, types.Filter{}))
	assert.False(t, c.Sync(ctx, types.Filter{}))
	assert.False(t, c.Sync(ctx, types.Filter{Locations: []string{"Mumbai"}}))
	assert.True(t, c.Sync(ctx, types.Filter{Search: "go", Locations: []string{"Mumbai"}}))
	assert.Len(t, api.calls(), 2)
}

func TestController_SameSelectionSameQuery(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	ctx := context.Background()
	pkg := 1000000

	for i := 0; i < 2; i++ {
		c := NewController(api, "tok")
		c.ToggleEmploymentType(ctx, types.EmploymentFullTime, true)
		c.ToggleEmploymentType(ctx, types.EmploymentPartTime, true)
		c.SetMinimumPackage(ctx, &pkg)
	}

	calls := api.calls()
	require.Len(t, calls, 6)
	assert.Equal(t, calls[2], calls[5])
	assert.Equal(t, "FULLTIME,PARTTIME", calls[5]["employment_type"])
}

func TestController_ClearMinimumPackage(t *testing.T) {
	api := &fakeAPI{jobs: sampleJobs}
	c := NewController(api, "tok")
	ctx := context.Background()
	pkg := 4000000

	c.SetMinimumPackage(ctx, &pkg)
	c.SetMinimumPackage(ctx, nil)

	calls := api.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "", calls[1]["minimum_package"])
	assert.Nil(t, c.Filter().MinimumPackage)
}

func TestScreen_ProfileIndependentOfJobs(t *testing.T) {
	api := &fakeAPI{
		err:     errors.New("jobs down"),
		profile: types.Profile{Name: "Rahul"},
	}
	s := NewScreen(api, "tok")
	ctx := context.Background()

	assert.Equal(t, view.StatusLoaded, s.LoadProfile(ctx))
	s.Jobs.Load(ctx)
	assert.True(t, s.Jobs.View().Failed())

	p, ok := view.Data[types.Profile](s.Profile.State())
	require.True(t, ok)
	assert.Equal(t, "Rahul", p.Name)

	// loaded profile is not refetched
	s.LoadProfile(ctx)
	assert.Equal(t, 1, api.profiles)
}

func TestScreen_RetryProfile(t *testing.T) {
	api := &fakeAPI{profErr: errors.New("profile down")}
	s := NewScreen(api, "tok")
	ctx := context.Background()

	assert.Equal(t, view.StatusFailed, s.LoadProfile(ctx))

	api.mu.Lock()
	api.profErr = nil
	api.profile = types.Profile{Name: "Rahul"}
	api.mu.Unlock()

	assert.Equal(t, view.StatusLoaded, s.RetryProfile(ctx))
	assert.Equal(t, 2, api.profiles)
}
