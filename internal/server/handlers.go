package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobby/internal/jobsapi"
	"github.com/jonathan/jobby/internal/listing"
	"github.com/jonathan/jobby/internal/server/middleware"
	"github.com/jonathan/jobby/internal/session"
	"github.com/jonathan/jobby/internal/types"
	"github.com/jonathan/jobby/internal/view"
)

const (
	jobsFailureMessage   = "We cannot seem to find the page you are looking for"
	detailFailureMessage = "We cannot seem to find the job details you are looking for"
)

type loginPage struct {
	Layout
	Username string
	Error    string
}

type homePage struct {
	Layout
}

// choice is one checkbox or radio button of the filter form.
type choice struct {
	Value   string
	Label   string
	Checked bool
}

type failureView struct {
	Message  string
	RetryURL string
}

type jobsPage struct {
	Layout
	ProfileStatus   view.Status
	Profile         types.Profile
	ProfileRetryURL string
	Jobs            listing.View
	JobsFailure     failureView
	Search          string
	EmploymentTypes []choice
	SalaryRanges    []choice
	Locations       []choice
}

type detailPage struct {
	Layout
	Status  view.Status
	Job     types.JobDetail
	Failure failureView
}

type notFoundPage struct {
	Layout
}

// requestSession returns the session LoadSession attached to r.
func (s *Server) requestSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess, err := middleware.GetSession(r)
	if err != nil {
		// Handler used outside LoadSession; read the store directly.
		sess, _ = session.Load(s.store, w, r)
	}
	return sess
}

// handleLoginPage renders the login form, or sends a signed-in user home.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.requestSession(w, r).Active() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.render(w, http.StatusOK, pageLogin, loginPage{Layout: s.layout(r, "Login", "login")})
}

// handleLogin exchanges the submitted credentials for a token and starts a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, pageLogin, loginPage{
			Layout: s.layout(r, "Login", "login"),
			Error:  "Invalid form submission",
		})
		return
	}

	req := types.LoginRequest{Username: r.PostFormValue("username"), Password: r.PostFormValue("password")}
	req.Normalize()
	page := loginPage{Layout: s.layout(r, "Login", "login"), Username: req.Username}

	if err := req.Validate(); err != nil {
		page.Error = "Username and password are required"
		s.render(w, http.StatusBadRequest, pageLogin, page)
		return
	}

	token, err := s.api.Login(r.Context(), req)
	if err != nil {
		log.Printf("[login] failed for %q: %v", req.Username, err)
		page.Error = loginMessage(err)
		s.render(w, http.StatusUnauthorized, pageLogin, page)
		return
	}

	if err := s.requestSession(w, r).Set(token); err != nil {
		log.Printf("[login] storing session: %v", err)
		page.Error = loginMessage(err)
		s.render(w, http.StatusInternalServerError, pageLogin, page)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout ends the session and drops its listing screen.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.requestSession(w, r)
	if key := sess.Key(); key != "" {
		s.screens.Forget(key)
	}
	if err := sess.Clear(); err != nil {
		log.Printf("[logout] clearing session: %v", err)
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageHome, homePage{Layout: s.layout(r, "Home", "home")})
}

// handleJobs renders the listing screen. The query carries the whole filter
// selection. Every visit reloads the list unless only the locations changed
// or the request retries the profile.
// Profile and job list load concurrently and fail independently.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		s.renderNotFound(w, r, HTTPStatus(err))
		return
	}

	sess := s.requestSession(w, r)
	screen := s.screens.Get(sess.Key(), sess.Token())
	retry := q.Get(qRetry)
	ctx := r.Context()

	var g errgroup.Group
	g.Go(func() error {
		if retry == retryProfile {
			screen.RetryProfile(ctx)
		} else {
			screen.LoadProfile(ctx)
		}
		return nil
	})
	g.Go(func() error {
		if retry == retryProfile {
			screen.Jobs.Sync(ctx, filter)
			return nil
		}
		fetched := screen.Jobs.Apply(ctx, filter)
		if retry == retryJobs && !fetched {
			if _, err := screen.Jobs.Retry(ctx); err != nil && !errors.Is(err, view.ErrNothingToRetry) {
				return err
			}
		}
		return nil
	})
	_ = g.Wait()

	jobs := screen.Jobs.View()
	if jobs.Failed() {
		log.Printf("[jobs] list failed: %v", jobs.Err)
	}
	profile := screen.Profile.Snapshot()
	if err := profile.Err(); err != nil {
		log.Printf("[jobs] profile failed: %v", err)
	}

	p, _ := view.Data[types.Profile](profile.State)
	s.render(w, http.StatusOK, pageJobs, jobsPage{
		Layout:          s.layout(r, "Jobs", "jobs"),
		ProfileStatus:   profile.Status(),
		Profile:         p,
		ProfileRetryURL: jobsURL(jobs.Filter, retryProfile),
		Jobs:            jobs,
		JobsFailure:     failureView{Message: jobsFailureMessage, RetryURL: jobsURL(jobs.Filter, retryJobs)},
		Search:          jobs.Filter.Search,
		EmploymentTypes: employmentChoices(jobs.Filter),
		SalaryRanges:    salaryChoices(jobs.Filter),
		Locations:       locationChoices(jobs.Filter),
	})
}

// handleJobDetail fetches one job. Every navigation starts a fresh resource;
// retrying is reloading the same URL.
func (s *Server) handleJobDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess := s.requestSession(w, r)

	res := view.NewResource[types.JobDetail]()
	state := res.Run(r.Context(), func(ctx context.Context) (types.JobDetail, error) {
		return s.api.JobDetail(ctx, sess.Token(), id)
	})

	page := detailPage{
		Layout:  s.layout(r, "Job Details", "jobs"),
		Status:  state.Status(),
		Failure: failureView{Message: detailFailureMessage, RetryURL: r.URL.RequestURI()},
	}

	status := http.StatusOK
	if err := view.Err[types.JobDetail](state); err != nil {
		if errors.Is(err, jobsapi.ErrAuthMissing) {
			http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
			return
		}
		log.Printf("[jobs] detail %s failed: %v", id, err)
		status = HTTPStatus(err)
	}
	page.Job, _ = view.Data[types.JobDetail](state)

	s.render(w, status, pageDetail, page)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderNotFound(w, r, http.StatusNotFound)
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, status int) {
	s.render(w, status, pageNotFound, notFoundPage{Layout: s.layout(r, "Not Found", "")})
}

func employmentChoices(f types.Filter) []choice {
	opts := types.EmploymentTypeOptions()
	out := make([]choice, 0, len(opts))
	for _, o := range opts {
		out = append(out, choice{Value: string(o.Value), Label: o.Label, Checked: f.HasEmploymentType(o.Value)})
	}
	return out
}

func salaryChoices(f types.Filter) []choice {
	opts := types.SalaryRangeOptions()
	out := make([]choice, 0, len(opts))
	for _, o := range opts {
		checked := f.MinimumPackage != nil && *f.MinimumPackage == o.Value
		out = append(out, choice{Value: strconv.Itoa(o.Value), Label: o.Label, Checked: checked})
	}
	return out
}

func locationChoices(f types.Filter) []choice {
	opts := types.LocationOptions()
	out := make([]choice, 0, len(opts))
	for _, loc := range opts {
		out = append(out, choice{Value: loc, Label: loc, Checked: f.HasLocation(loc)})
	}
	return out
}
