package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/jobby/internal/config"
	"github.com/jonathan/jobby/internal/jobsapi"
	"github.com/jonathan/jobby/internal/observability"
)

// errNoToken is returned by data commands run without a token.
var errNoToken = errors.New("no token: pass --token or set JOBBY_TOKEN (get one with 'jobby login')")

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newAPIClient(cfg *config.Config) *jobsapi.Client {
	return jobsapi.New(jobsapi.Config{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.APITimeout,
		StrictPayloads: cfg.StrictPayloads,
	})
}

// tokenFor picks the --token flag over JOBBY_TOKEN.
func (o *rootOptions) tokenFor(cfg *config.Config) (string, error) {
	if o.token != "" {
		return o.token, nil
	}
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	return "", errNoToken
}

// cliSession bundles what a data command needs.
type cliSession struct {
	api     *jobsapi.Client
	token   string
	printer *observability.Printer
}

func (o *rootOptions) open(out io.Writer) (*cliSession, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	token, err := o.tokenFor(cfg)
	if err != nil {
		return nil, err
	}
	return &cliSession{
		api:     newAPIClient(cfg),
		token:   token,
		printer: observability.NewPrinter(out, cfg.Verbose),
	}, nil
}

func wrapAPIError(what string, err error) error {
	if errors.Is(err, jobsapi.ErrAuthMissing) {
		return errNoToken
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}
