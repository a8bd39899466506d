package comparison

import (
	"context"
	"slices"
	"strings"
	"sync"

	"docreview-backend/internal/anomalies"
	"docreview-backend/internal/progress"
)

// DetectRequest is the anomaly detection payload. Files holds the candidate
// (daily) file first and the final file second.
type DetectRequest struct {
	ProjectName      string   `json:"projectName"`
	Files            []string `json:"files"`
	AnomalyStartDate string   `json:"anomalyStartDate"`
}

// Backend is the remote surface a comparison needs.
type Backend interface {
	DetectAnomalies(ctx context.Context, req DetectRequest) (string, error)
	ProgressChart(ctx context.Context, project, startDate string) ([]progress.ChartPoint, error)
}

// Request is the user's selection.
type Request struct {
	Project       string
	CandidateFile string
	FinalFile     string
	StartDate     string
}

func (r Request) missing() []string {
	var out []string
	if strings.TrimSpace(r.Project) == "" {
		out = append(out, "project")
	}
	if strings.TrimSpace(r.CandidateFile) == "" {
		out = append(out, "file")
	}
	if strings.TrimSpace(r.FinalFile) == "" {
		out = append(out, "final file")
	}
	if strings.TrimSpace(r.StartDate) == "" {
		out = append(out, "date")
	}
	return out
}

// Result is a snapshot of the comparison. Anomalies and Chart are independent
// halves: a chart failure sets ChartErr and leaves a Ready result Ready.
type Result struct {
	State      State
	Generation uint64
	Request    Request

	Raw       string
	Anomalies anomalies.Summary

	Chart    []progress.ChartPoint
	ChartErr error

	Err     error
	Message string

	// Stale marks a result whose generation was superseded before it
	// completed. Stale results are returned to the caller but never applied.
	Stale bool
}

// Orchestrator owns the current comparison result. Every Compare and Reset
// starts a new generation; responses from older generations are dropped.
type Orchestrator struct {
	backend Backend

	mu        sync.Mutex
	gen       uint64
	current   Result
	observers []func(Result)
}

// New constructs an Orchestrator over backend.
func New(backend Backend) *Orchestrator {
	return &Orchestrator{backend: backend}
}

// Subscribe registers fn to receive every applied state transition.
func (o *Orchestrator) Subscribe(fn func(Result)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

// Current returns the latest applied result.
func (o *Orchestrator) Current() Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Reset returns to Idle, e.g. after the project, file or date selection
// changed. Any in-flight comparison becomes stale.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.gen++
	o.current = Result{State: Idle, Generation: o.gen}
	snap, obs := o.current, o.snapshotObservers()
	o.mu.Unlock()
	notify(obs, snap)
}

// Compare runs one comparison and returns its final result. The result is
// applied to Current only while its generation is the latest.
func (o *Orchestrator) Compare(ctx context.Context, req Request) Result {
	if missing := req.missing(); len(missing) > 0 {
		err := &ValidationError{Missing: missing}
		res, _ := o.begin(req, func(r *Result) {
			r.State = Failed
			r.Err = err
			r.Message = userMessage(err)
		})
		return res
	}

	res, gen := o.begin(req, func(r *Result) { r.State = Loading })

	raw, err := o.backend.DetectAnomalies(ctx, DetectRequest{
		ProjectName:      req.Project,
		Files:            []string{req.CandidateFile, req.FinalFile},
		AnomalyStartDate: req.StartDate,
	})
	if err != nil {
		ne := newNetworkError(err)
		res.State = Failed
		res.Err = ne
		res.Message = userMessage(ne)
		return o.apply(gen, res)
	}

	res.State = Ready
	res.Raw = raw
	res.Anomalies = anomalies.Summarize(raw)
	res = o.apply(gen, res)
	if res.Stale {
		return res
	}

	chart, err := o.backend.ProgressChart(ctx, req.Project, req.StartDate)
	if err != nil {
		res.ChartErr = newNetworkError(err)
	} else {
		res.Chart = chart
	}
	return o.apply(gen, res)
}

// begin starts a new generation and applies the initial state built by init.
func (o *Orchestrator) begin(req Request, init func(*Result)) (Result, uint64) {
	o.mu.Lock()
	o.gen++
	res := Result{Generation: o.gen, Request: req}
	init(&res)
	o.current = res
	obs := o.snapshotObservers()
	o.mu.Unlock()
	notify(obs, res)
	return res, res.Generation
}

// apply stores res when gen is still the latest generation and marks it
// stale otherwise.
func (o *Orchestrator) apply(gen uint64, res Result) Result {
	o.mu.Lock()
	if o.gen != gen {
		o.mu.Unlock()
		res.Stale = true
		return res
	}
	o.current = res
	obs := o.snapshotObservers()
	o.mu.Unlock()
	notify(obs, res)
	return res
}

func (o *Orchestrator) snapshotObservers() []func(Result) {
	return slices.Clone(o.observers)
}

func notify(obs []func(Result), res Result) {
	for _, fn := range obs {
		fn(res)
	}
}
