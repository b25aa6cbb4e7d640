package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobby/internal/config"
	"github.com/jonathan/jobby/internal/session"
)

type upstreamCall struct {
	Path  string
	Query string
	Auth  string
	Body  string
}

type upstream struct {
	mu     sync.Mutex
	calls  []upstreamCall
	status map[string]int
	bodies map[string]string
}

const (
	profileJSON = `{"profile_details":{"name":"Rahul Attuluri","profile_image_url":"https://assets.example.com/me.png","short_bio":"Lead Software Developer"}}`
	jobsJSON    = `{"jobs":[
{"id":"j1","title":"Backend Engineer","rating":4,"location":"Delhi","employment_type":"Full Time","package_per_annum":"21 LPA","job_description":"Build services","company_logo_url":"https://assets.example.com/a.png"},
{"id":"j2","title":"Frontend Engineer","rating":3.5,"location":"Mumbai","employment_type":"Part Time","package_per_annum":"11 LPA","job_description":"Build pages","company_logo_url":"https://assets.example.com/b.png"}],"total":2}`
	detailJSON = `{"job_details":{"id":"j1","title":"Backend Engineer","rating":4.5,"location":"Delhi",
"employment_type":"Full Time","package_per_annum":"21 LPA","job_description":"Build services",
"company_logo_url":"https://assets.example.com/a.png","company_website_url":"https://example.com",
"skills":[{"name":"Go","image_url":"https://assets.example.com/go.png"}],
"life_at_company":{"description":"Calm","image_url":"https://assets.example.com/life.png"}},
"similar_jobs":[]}`
)

// newUpstream starts a fake jobs API and points JOBBY_API_BASE_URL at it.
func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{
		status: map[string]int{},
		bodies: map[string]string{
			"/login":   `{"jwt_token":"tok-123"}`,
			"/profile": profileJSON,
			"/jobs":    jobsJSON,
			"/jobs/j1": detailJSON,
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.calls = append(u.calls, upstreamCall{
			Path:  r.URL.Path,
			Query: r.URL.RawQuery,
			Auth:  r.Header.Get("Authorization"),
			Body:  string(body),
		})
		status, ok := u.status[r.URL.Path]
		if !ok {
			status = http.StatusOK
		}
		resp := u.bodies[r.URL.Path]
		u.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("JOBBY_API_BASE_URL", srv.URL)
	unsetEnv(t, "JOBBY_TOKEN")
	unsetEnv(t, "JOBBY_VERBOSE")
	return u
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func (u *upstream) recorded() []upstreamCall {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]upstreamCall(nil), u.calls...)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoginCommand(t *testing.T) {
	u := newUpstream(t)

	out, err := execute(t, "login", "--username", " rahul ", "--password", "rahul@2021")
	require.NoError(t, err)
	assert.Equal(t, "tok-123\n", out)

	calls := u.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/login", calls[0].Path)
	assert.JSONEq(t, `{"username":"rahul","password":"rahul@2021"}`, calls[0].Body)
}

func TestLoginCommand_Rejected(t *testing.T) {
	u := newUpstream(t)
	u.status["/login"] = http.StatusBadRequest
	u.bodies["/login"] = `{"error_msg":"username and password didn't match"}`

	_, err := execute(t, "login", "-u", "rahul", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.Contains(t, err.Error(), "username and password didn't match")
}

func TestLoginCommand_FlagsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Missing --username flag", args: []string{"login", "--password", "x"}},
		{name: "Missing --password flag", args: []string{"login", "--username", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUpstream(t)
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "required")
			assert.Empty(t, u.recorded())
		})
	}
}

func TestProfileCommand(t *testing.T) {
	t.Run("token flag", func(t *testing.T) {
		u := newUpstream(t)
		out, err := execute(t, "profile", "--token", "tok-flag")
		require.NoError(t, err)
		assert.Contains(t, out, "Rahul Attuluri")
		assert.Contains(t, out, "Lead Software Developer")

		calls := u.recorded()
		require.Len(t, calls, 1)
		assert.Equal(t, "Bearer tok-flag", calls[0].Auth)
	})

	t.Run("token from environment", func(t *testing.T) {
		u := newUpstream(t)
		t.Setenv("JOBBY_TOKEN", "tok-env")
		_, err := execute(t, "profile")
		require.NoError(t, err)

		calls := u.recorded()
		require.Len(t, calls, 1)
		assert.Equal(t, "Bearer tok-env", calls[0].Auth)
	})

	t.Run("blank variables from .env", func(t *testing.T) {
		newUpstream(t)
		t.Setenv("JOBBY_STRICT_PAYLOADS", "")
		t.Setenv("JOBBY_VERBOSE", "")
		t.Setenv("JOBBY_API_TIMEOUT", "")
		out, err := execute(t, "profile", "--token", "tok")
		require.NoError(t, err)
		assert.Contains(t, out, "Rahul Attuluri")
	})

	t.Run("no token", func(t *testing.T) {
		u := newUpstream(t)
		_, err := execute(t, "profile")
		assert.ErrorIs(t, err, errNoToken)
		assert.Empty(t, u.recorded())
	})
}

func TestJobsCommand_Query(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantQuery string
	}{
		{
			name:      "nothing selected",
			args:      nil,
			wantQuery: "employment_type=&minimum_package=&search=",
		},
		{
			name:      "all filters",
			args:      []string{"--employment-type", "FULLTIME,parttime", "--minimum-package", "1000000", "--search", "go"},
			wantQuery: "employment_type=FULLTIME%2CPARTTIME&minimum_package=1000000&search=go",
		},
		{
			name:      "repeated types keep first position",
			args:      []string{"-t", "PARTTIME", "-t", "FULLTIME", "-t", "PARTTIME"},
			wantQuery: "employment_type=PARTTIME%2CFULLTIME&minimum_package=&search=",
		},
		{
			name:      "location is not sent",
			args:      []string{"--location", "Delhi"},
			wantQuery: "employment_type=&minimum_package=&search=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUpstream(t)
			args := append([]string{"jobs", "--token", "tok"}, tt.args...)
			_, err := execute(t, args...)
			require.NoError(t, err)

			calls := u.recorded()
			require.Len(t, calls, 1)
			assert.Equal(t, "/jobs", calls[0].Path)
			assert.Equal(t, tt.wantQuery, calls[0].Query)
		})
	}
}

func TestJobsCommand_Output(t *testing.T) {
	t.Run("lists jobs", func(t *testing.T) {
		newUpstream(t)
		out, err := execute(t, "jobs", "--token", "tok")
		require.NoError(t, err)
		assert.Contains(t, out, "Total jobs: 2")
		assert.Contains(t, out, "Backend Engineer")
		assert.Contains(t, out, "Frontend Engineer")
	})

	t.Run("location narrows locally", func(t *testing.T) {
		newUpstream(t)
		out, err := execute(t, "jobs", "--token", "tok", "--location", "Mumbai")
		require.NoError(t, err)
		assert.Contains(t, out, "Frontend Engineer")
		assert.NotContains(t, out, "Backend Engineer")
	})

	t.Run("empty list", func(t *testing.T) {
		u := newUpstream(t)
		u.bodies["/jobs"] = `{"jobs":[],"total":0}`
		out, err := execute(t, "jobs", "--token", "tok")
		require.NoError(t, err)
		assert.Contains(t, out, "No Jobs Found")
	})

	t.Run("upstream failure", func(t *testing.T) {
		u := newUpstream(t)
		u.status["/jobs"] = http.StatusInternalServerError
		u.bodies["/jobs"] = `{"error_msg":"boom"}`
		_, err := execute(t, "jobs", "--token", "tok")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list jobs")
	})
}

func TestJobsCommand_InvalidFilter(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown employment type", args: []string{"-t", "CONTRACT"}, want: "invalid --employment-type"},
		{name: "negative package", args: []string{"--minimum-package=-5"}, want: "invalid filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUpstream(t)
			args := append([]string{"jobs", "--token", "tok"}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, u.recorded())
		})
	}
}

func TestJobCommand(t *testing.T) {
	u := newUpstream(t)

	out, err := execute(t, "job", "j1", "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "Skills: Go")
	assert.Contains(t, out, "Calm")

	calls := u.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/jobs/j1", calls[0].Path)
}

func TestJobCommand_NotFound(t *testing.T) {
	u := newUpstream(t)
	u.status["/jobs/missing"] = http.StatusNotFound
	u.bodies["/jobs/missing"] = `{"error_msg":"job not found"}`

	_, err := execute(t, "job", "missing", "--token", "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load job")
	assert.Contains(t, err.Error(), "404")
}

func TestJobCommand_RequiresID(t *testing.T) {
	newUpstream(t)
	_, err := execute(t, "job", "--token", "tok")
	assert.Error(t, err)
}

func TestNewSessionStore(t *testing.T) {
	base := config.Config{CookieName: "jwt_token", SessionTTL: time.Hour}

	cookieCfg := base
	cookieCfg.SessionBackend = config.SessionCookie
	store, closeStore, err := newSessionStore(context.Background(), &cookieCfg)
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &session.CookieStore{}, store)

	memCfg := base
	memCfg.SessionBackend = config.SessionMemory
	store, closeMem, err := newSessionStore(context.Background(), &memCfg)
	require.NoError(t, err)
	defer closeMem()
	assert.IsType(t, &session.MemoryStore{}, store)
}
