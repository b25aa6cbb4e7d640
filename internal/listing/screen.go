package listing

import (
	"context"

	"github.com/jonathan/jobby/internal/types"
	"github.com/jonathan/jobby/internal/view"
)

// API is what the listing screen needs from the jobs API.
type API interface {
	Lister
	Profile(ctx context.Context, token string) (types.Profile, error)
}

// Screen is the listing screen of one session: the profile card and the
// job list. The two resources load and fail independently.
type Screen struct {
	api     API
	token   string
	Profile *view.Resource[types.Profile]
	Jobs    *Controller
}

// NewScreen creates an idle screen for token.
func NewScreen(api API, token string) *Screen {
	return &Screen{
		api:     api,
		token:   token,
		Profile: view.NewResource[types.Profile](),
		Jobs:    NewController(api, token),
	}
}

// LoadProfile fetches the profile unless it is already loaded or in flight.
func (s *Screen) LoadProfile(ctx context.Context) view.Status {
	switch s.Profile.State().(type) {
	case view.Loaded[types.Profile], view.Loading[types.Profile]:
		return s.Profile.State().Status()
	}
	return s.Profile.Run(ctx, func(ctx context.Context) (types.Profile, error) {
		return s.api.Profile(ctx, s.token)
	}).Status()
}

// RetryProfile re-issues the profile request.
func (s *Screen) RetryProfile(ctx context.Context) view.Status {
	state, err := s.Profile.Retry(ctx)
	if err != nil {
		return s.LoadProfile(ctx)
	}
	return state.Status()
}
