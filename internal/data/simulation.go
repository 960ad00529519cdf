package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wealth-dashboard/internal/model"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is where the simulation service listens in local development.
const DefaultBaseURL = "http://127.0.0.1:8000"

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 2048

// SimulationClient submits configurations to the remote simulation service.
// One call is one POST: no retry, no caching.
type SimulationClient struct {
	BaseURL string
	Client  *http.Client
	Log     logrus.FieldLogger
}

// NewSimulationClient creates a client for baseURL.
// If baseURL is empty, defaults to DefaultBaseURL. A zero timeout means none;
// callers can still bound a run through its context.
func NewSimulationClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *SimulationClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SimulationClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Log:     log,
	}
}

// TransportError means the request never got a response from the service.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("simulation service unreachable (%s): %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError means the service answered with a non-success status.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// IsSimulationFailure reports whether err belongs to the single user-visible
// "simulation failed" condition: transport, service or malformed-result errors.
func IsSimulationFailure(err error) bool {
	var tErr *TransportError
	var sErr *ServiceError
	var mErr *model.MalformedInputError
	return errors.As(err, &tErr) || errors.As(err, &sErr) || errors.As(err, &mErr)
}

// Run submits cfg to POST {BaseURL}/simulate and returns the snapshots in the
// order the service produced them.
func (c *SimulationClient) Run(ctx context.Context, cfg model.SimulationConfig) ([]model.Snapshot, error) {
	body, err := c.RunRaw(ctx, cfg)
	if err != nil {
		return nil, err
	}
	snaps, err := model.DecodeSnapshots(body)
	if err != nil {
		c.Log.WithError(err).Warn("simulation response rejected")
		return nil, err
	}
	c.Log.WithField("snapshots", len(snaps)).Info("simulation completed")
	return snaps, nil
}

// RunRaw performs the POST and returns the undecoded response body.
// The CLI uses it to keep the raw result file alongside the derived exports.
func (c *SimulationClient) RunRaw(ctx context.Context, cfg model.SimulationConfig) ([]byte, error) {
	u, err := url.Parse(c.BaseURL + "/simulate")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log := c.Log.WithFields(logrus.Fields{
		"url":        u.String(),
		"population": cfg.TotalPopulation,
		"time_steps": cfg.NumTimeSteps,
	})
	log.Debug("submitting simulation")

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.WithError(err).WithField("duration", duration).Warn("simulation request failed")
		return nil, &TransportError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "duration": duration})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		sErr := &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       serviceErrorCode(resp.StatusCode),
			Message:    fmt.Sprintf("simulation service returned status %d: %s", resp.StatusCode, resp.Status),
			Body:       string(excerpt),
		}
		log.WithField("code", sErr.Code).Warn("simulation service error")
		return nil, sErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("reading simulation response failed")
		return nil, &TransportError{URL: u.String(), Err: err}
	}
	log.WithField("bytes", len(raw)).Debug("simulation response received")
	return raw, nil
}

func serviceErrorCode(status int) string {
	switch {
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return "INVALID_CONFIG"
	case status == http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case status >= 500:
		return "SERVICE_ERROR"
	default:
		return "API_ERROR"
	}
}
