// Package listing drives the job listing screen: the filter selection, the
// job list fetches it triggers and the client-side location filter.
package listing

import (
	"context"
	"sync"

	"github.com/jonathan/jobby/internal/types"
	"github.com/jonathan/jobby/internal/view"
)

// Lister fetches the job list for a filter selection.
type Lister interface {
	ListJobs(ctx context.Context, token string, f types.Filter) ([]types.JobSummary, error)
}

// Controller owns the filter selection of one listing screen and the job
// list resource it drives.
//
// Every change to the server-side part of the selection (employment types,
// minimum package, submitted search) issues exactly one list fetch. Location
// changes never fetch; the visible list is re-derived from the last fetched
// list.
type Controller struct {
	lister Lister
	token  string

	mu      sync.Mutex
	filter  types.Filter
	started bool

	jobs *view.Resource[[]types.JobSummary]
}

// NewController creates an idle controller that fetches with token.
func NewController(lister Lister, token string) *Controller {
	return &Controller{
		lister: lister,
		token:  token,
		jobs:   view.NewResource[[]types.JobSummary](),
	}
}

// Filter returns a copy of the current selection.
func (c *Controller) Filter() types.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Clone()
}

// Load issues the initial fetch. It is a no-op once any fetch has started.
func (c *Controller) Load(ctx context.Context) view.Status {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return c.jobs.State().Status()
	}
	f := c.markStarted()
	c.mu.Unlock()
	return c.fetch(ctx, f)
}

// ToggleEmploymentType adds or removes an employment type and refetches.
func (c *Controller) ToggleEmploymentType(ctx context.Context, t types.EmploymentType, checked bool) view.Status {
	return c.mutate(ctx, func(f types.Filter) types.Filter {
		return f.WithEmploymentType(t, checked)
	})
}

// SetMinimumPackage sets or clears the salary floor and refetches.
func (c *Controller) SetMinimumPackage(ctx context.Context, minimum *int) view.Status {
	return c.mutate(ctx, func(f types.Filter) types.Filter {
		out := f.Clone()
		out.MinimumPackage = nil
		if minimum != nil {
			v := *minimum
			out.MinimumPackage = &v
		}
		return out
	})
}

// SetSearchInput records search text without fetching.
func (c *Controller) SetSearchInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Search = text
}

// SubmitSearch fetches with the current search text.
func (c *Controller) SubmitSearch(ctx context.Context) view.Status {
	return c.mutate(ctx, func(f types.Filter) types.Filter { return f })
}

// ToggleLocation adds or removes a location. No request is made.
func (c *Controller) ToggleLocation(loc string, checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = c.filter.WithLocation(loc, checked)
}

// Apply moves the controller to a whole new selection, as submitted by a
// form or reached by navigating to the screen. It issues one fetch unless
// only the locations changed, in which case the visible list is re-derived.
// Arriving again with the identical selection refetches, so a failed or old
// list does not outlive a reload. It reports whether a fetch was issued.
func (c *Controller) Apply(ctx context.Context, next types.Filter) bool {
	return c.apply(ctx, next, true)
}

// Sync is Apply for requests that do not reload the list, such as a profile
// retry: it fetches only on first use or when the server-side selection changed.
func (c *Controller) Sync(ctx context.Context, next types.Filter) bool {
	return c.apply(ctx, next, false)
}

func (c *Controller) apply(ctx context.Context, next types.Filter, reload bool) bool {
	next = next.Clone()

	c.mu.Lock()
	needFetch := !c.started || !c.filter.SameServerSelection(next) ||
		(reload && c.filter.SameLocations(next))
	c.filter = next
	if !needFetch {
		c.mu.Unlock()
		return false
	}
	f := c.markStarted()
	c.mu.Unlock()

	c.fetch(ctx, f)
	return true
}

// Retry re-issues the last list request unchanged.
func (c *Controller) Retry(ctx context.Context) (view.Status, error) {
	state, err := c.jobs.Retry(ctx)
	return state.Status(), err
}

// View is a consistent read of the listing for rendering.
type View struct {
	Status view.Status
	// Jobs is the visible list: the last fetched list narrowed by location.
	Jobs []types.JobSummary
	// Empty is set when the list loaded but nothing is visible.
	Empty  bool
	Err    error
	Filter types.Filter
}

// Failed reports whether the last fetch failed.
func (v View) Failed() bool { return v.Status == view.StatusFailed }

// Loading reports whether a fetch is in flight.
func (v View) Loading() bool { return v.Status == view.StatusLoading }

// View returns the current listing.
func (c *Controller) View() View {
	f := c.Filter()
	snap := c.jobs.Snapshot()

	v := View{
		Status: snap.Status(),
		Err:    snap.Err(),
		Filter: f,
	}
	if all, ok := view.Data[[]types.JobSummary](snap.State); ok {
		v.Jobs = visible(all, f)
		v.Empty = len(v.Jobs) == 0
	}
	return v
}

func visible(all []types.JobSummary, f types.Filter) []types.JobSummary {
	out := make([]types.JobSummary, 0, len(all))
	for _, j := range all {
		if f.MatchLocation(j) {
			out = append(out, j)
		}
	}
	return out
}

// mutate applies change to the selection and issues one fetch with the result.
func (c *Controller) mutate(ctx context.Context, change func(types.Filter) types.Filter) view.Status {
	c.mu.Lock()
	c.filter = change(c.filter)
	f := c.markStarted()
	c.mu.Unlock()
	return c.fetch(ctx, f)
}

// markStarted must be called with mu held. It returns the selection to fetch with.
func (c *Controller) markStarted() types.Filter {
	c.started = true
	return c.filter.Clone()
}

func (c *Controller) fetch(ctx context.Context, f types.Filter) view.Status {
	return c.jobs.Run(ctx, func(ctx context.Context) ([]types.JobSummary, error) {
		return c.lister.ListJobs(ctx, c.token, f)
	}).Status()
}
