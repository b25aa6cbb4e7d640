// Package jobsapi is the client for the remote jobs REST API.
// Every data call is one authorized request; there is no retry and no backoff.
package jobsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/jobby/internal/schemas"
	"github.com/jonathan/jobby/internal/types"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://apis.ccbp.in"

// Resource names used in RequestError.
const (
	ResourceLogin     = "login"
	ResourceProfile   = "profile"
	ResourceJobs      = "jobs"
	ResourceJobDetail = "job_details"
)

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout bounds a single request. Zero means no deadline beyond the context.
	Timeout time.Duration
	// StrictPayloads validates each response body against its JSON schema
	// before decoding it.
	StrictPayloads bool
	UserAgent      string
}

// Client talks to the jobs API.
type Client struct {
	http   *resty.Client
	strict bool
}

// New creates a Client for cfg.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "jobby/1.0"
	}

	rc := resty.New().
		SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ua).
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}

	return &Client{http: rc, strict: cfg.StrictPayloads}
}

// BaseURL returns the API host the client is bound to.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (string, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return "", &RequestError{Resource: ResourceLogin, Message: "invalid credentials", Cause: err}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(loginWire{Username: req.Username, Password: req.Password}).
		Post("/login")
	if err != nil {
		return "", &RequestError{Resource: ResourceLogin, Message: "transport error", Cause: err}
	}

	var out loginResponse
	decodeErr := json.Unmarshal(resp.Body(), &out)
	if !resp.IsSuccess() {
		return "", &RequestError{
			Resource:   ResourceLogin,
			StatusCode: resp.StatusCode(),
			Message:    out.ErrorMsg,
		}
	}
	if decodeErr != nil {
		return "", &RequestError{Resource: ResourceLogin, StatusCode: resp.StatusCode(), Message: "invalid response body", Cause: decodeErr}
	}
	if out.JWTToken == "" {
		return "", &RequestError{Resource: ResourceLogin, StatusCode: resp.StatusCode(), Message: "response carried no token"}
	}
	return out.JWTToken, nil
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context, token string) (types.Profile, error) {
	var out profileResponse
	if err := c.get(ctx, token, ResourceProfile, schemas.PayloadProfile, "/profile", nil, nil, &out); err != nil {
		return types.Profile{}, err
	}
	return out.toProfile(), nil
}

// ListJobs fetches the job list for the server-side part of a filter selection.
// Locations are not sent; callers filter by location locally.
func (c *Client) ListJobs(ctx context.Context, token string, f types.Filter) ([]types.JobSummary, error) {
	var out jobsResponse
	if err := c.get(ctx, token, ResourceJobs, schemas.PayloadJobs, "/jobs", JobListQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return toSummaries(out.Jobs), nil
}

// JobDetail fetches one job with its similar jobs.
func (c *Client) JobDetail(ctx context.Context, token, id string) (types.JobDetail, error) {
	if strings.TrimSpace(id) == "" {
		return types.JobDetail{}, &RequestError{Resource: ResourceJobDetail, StatusCode: http.StatusNotFound, Message: "empty job id"}
	}
	var out jobDetailsResponse
	path := map[string]string{"id": id}
	if err := c.get(ctx, token, ResourceJobDetail, schemas.PayloadJobDetails, "/jobs/{id}", nil, path, &out); err != nil {
		return types.JobDetail{}, err
	}
	return out.toDetail(), nil
}

func (c *Client) get(ctx context.Context, token, resource string, payload schemas.Payload, path string, query, pathParams map[string]string, out any) error {
	if token == "" {
		return ErrAuthMissing
	}

	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(token)
	if query != nil {
		req.SetQueryParams(query)
	}
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}

	resp, err := req.Get(path)
	if err != nil {
		return &RequestError{Resource: resource, Message: "transport error", Cause: err}
	}

	if !resp.IsSuccess() {
		var apiErr errorResponse
		_ = json.Unmarshal(resp.Body(), &apiErr)
		msg := apiErr.ErrorMsg
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return &RequestError{Resource: resource, StatusCode: resp.StatusCode(), Message: msg}
	}

	if c.strict {
		if err := schemas.ValidatePayload(payload, resp.Body()); err != nil {
			return &RequestError{Resource: resource, StatusCode: resp.StatusCode(), Message: "payload failed schema validation", Cause: err}
		}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &RequestError{Resource: resource, StatusCode: resp.StatusCode(), Message: "invalid response body", Cause: err}
	}
	return nil
}
