// Package dashboard holds the application state: the editable parameters, the
// status of the latest run and the last published result.
//
// Transitions:
//
//	idle -> loading -> populated | failed
//	populated | failed -> loading (next run)
//
// A run started while another is in flight supersedes it. The superseded
// call is cancelled and its outcome is never published, so at most one
// result is visible at a time. The last published result stays visible while
// a new run is loading or after it fails.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"wealth-dashboard/internal/derive"
	"wealth-dashboard/internal/model"
	"wealth-dashboard/internal/params"
	"wealth-dashboard/internal/present"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FailureMessage is the only failure text shown to users.
const FailureMessage = "Simulation failed. Please check your inputs or try again later."

// ErrSuperseded is returned by Run when a newer run replaced it before it finished.
var ErrSuperseded = errors.New("run superseded by a newer run")

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusPopulated Status = "populated"
	StatusFailed    Status = "failed"
)

// Runner submits one configuration to the simulation service.
type Runner interface {
	Run(ctx context.Context, cfg model.SimulationConfig) ([]model.Snapshot, error)
}

// Result is one published run.
type Result struct {
	RunID       string                 `json:"runId"`
	Config      model.SimulationConfig `json:"config"`
	Snapshots   []model.Snapshot       `json:"snapshots"`
	Series      *derive.SeriesSet      `json:"series"`
	Dashboard   *present.Dashboard     `json:"dashboard"`
	CompletedAt time.Time              `json:"completedAt"`
}

// State is a point-in-time copy of the application state.
type State struct {
	Status     Status    `json:"status"`
	RunID      string    `json:"runId,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt,omitempty"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
	Result     *Result   `json:"-"`
}

// Dashboard is the single application-state record. It is safe for concurrent use.
type Dashboard struct {
	params  *params.Model
	runner  Runner
	engine  *derive.Engine
	adapter *present.Adapter
	log     logrus.FieldLogger

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
}

// New creates a dashboard in the idle state.
func New(p *params.Model, runner Runner, engine *derive.Engine, adapter *present.Adapter, log logrus.FieldLogger) *Dashboard {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dashboard{
		params:  p,
		runner:  runner,
		engine:  engine,
		adapter: adapter,
		log:     log,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		state:   State{Status: StatusIdle},
	}
}

// Params returns the editable parameter model.
func (d *Dashboard) Params() *params.Model { return d.params }

// Adapter returns the presentation adapter results are built with.
func (d *Dashboard) Adapter() *present.Adapter { return d.adapter }

// State returns a copy of the current state.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Result returns the last published result, if any.
func (d *Dashboard) Result() (*Result, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Result, d.state.Result != nil
}

// Run submits the current parameters and blocks until the run completes,
// fails or is superseded. Failures are recorded in the state with
// FailureMessage and also returned.
func (d *Dashboard) Run(ctx context.Context) (State, error) {
	cfg := d.params.ToPayload()

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.seq++
	seq := d.seq
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	runID := d.newID()
	d.state = State{
		Status:    StatusLoading,
		RunID:     runID,
		StartedAt: d.now(),
		Result:    d.state.Result,
	}
	d.mu.Unlock()
	defer cancel()

	log := d.log.WithField("run_id", runID)
	log.Info("simulation run started")

	snaps, err := d.runner.Run(runCtx, cfg)

	var res *Result
	if err == nil {
		set := d.engine.Derive(snaps)
		res = &Result{
			RunID:     runID,
			Config:    cfg,
			Snapshots: snaps,
			Series:    set,
			Dashboard: d.adapter.Build(set),
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		log.Info("simulation run superseded")
		return d.state, ErrSuperseded
	}
	d.cancel = nil
	d.state.FinishedAt = d.now()

	if err != nil {
		log.WithError(err).Warn("simulation run failed")
		d.state.Status = StatusFailed
		d.state.Error = FailureMessage
		return d.state, err
	}

	res.CompletedAt = d.state.FinishedAt
	d.state.Status = StatusPopulated
	d.state.Result = res
	log.WithFields(logrus.Fields{
		"snapshots": len(snaps),
		"duration":  d.state.FinishedAt.Sub(d.state.StartedAt),
	}).Info("simulation run published")
	return d.state, nil
}
