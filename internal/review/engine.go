package review

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/dshills/coral/internal/github"
	"github.com/dshills/coral/internal/target"
	"golang.org/x/sync/errgroup"
)

// ReportVersion is the schema version stamped on every Report.
const ReportVersion = "1.0"

// Fetcher is the GitHub data an analysis run needs. *github.Client
// satisfies it.
type Fetcher interface {
	Repo(ctx context.Context, owner, repo string) (github.Repository, error)
	Languages(ctx context.Context, owner, repo string) (github.Languages, error)
	Readme(ctx context.Context, owner, repo string) error
	PullRequest(ctx context.Context, owner, repo string, number int) (github.PullRequest, error)
	PullRequestFiles(ctx context.Context, owner, repo string, number int) ([]github.PRFile, error)
}

// State is a step of an analysis run.
type State string

const (
	StateIdle      State = "idle"
	StateResolving State = "resolving"
	StateFetching  State = "fetching"
	StateScoring   State = "scoring"
	StateDone      State = "done"
)

// Transition describes a state change of a run. Err is set on the final
// transition to StateDone when the run ended on a fallback.
type Transition struct {
	From   State
	To     State
	Type   target.AnalysisType
	Target *target.Target
	Err    error
}

// Observer receives the transitions of a run as they happen.
type Observer interface {
	OnTransition(Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

func (f ObserverFunc) OnTransition(t Transition) { f(t) }

// Request is a single analysis run's input.
type Request struct {
	URL      string
	Type     target.AnalysisType
	Observer Observer
}

// ErrInvalidURL is reported on the final transition of a run whose URL
// could not be resolved.
var ErrInvalidURL = fmt.Errorf("invalid GitHub URL")

// Engine sequences URL resolution, GitHub fetches, rules and scoring.
// It holds no per-run state and is safe for concurrent use.
type Engine struct {
	fetcher Fetcher
	rules   RuleSet
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rule set.
func WithRules(rs RuleSet) Option {
	return func(e *Engine) { e.rules = rs }
}

// WithThresholds builds the default rule set from th.
func WithThresholds(th Thresholds) Option {
	return func(e *Engine) { e.rules = DefaultRules(th) }
}

// New creates an engine that fetches through f.
func New(f Fetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher: f,
		rules:   DefaultRules(DefaultThresholds()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run carries the state of one Analyze call.
type run struct {
	req        Request
	kind       target.AnalysisType
	target     *target.Target
	state      State
	fetchStart time.Time
	fetchMs    int64
}

func (r *run) enter(s State, err error) {
	if s == StateScoring || (s == StateDone && r.state == StateFetching) {
		r.fetchMs = time.Since(r.fetchStart).Milliseconds()
	}
	if s == StateFetching {
		r.fetchStart = time.Now()
	}
	prev := r.state
	r.state = s
	if r.req.Observer != nil {
		r.req.Observer.OnTransition(Transition{From: prev, To: s, Type: r.kind, Target: r.target, Err: err})
	}
}

// Analyze runs one analysis to completion. It never fails: an unusable URL
// or a GitHub error is turned into a single finding with a fixed score.
func (e *Engine) Analyze(ctx context.Context, req Request) Result {
	res, _ := e.analyze(ctx, req)
	return res
}

// Run analyzes req and wraps the result in an exportable Report.
func (e *Engine) Run(ctx context.Context, req Request) *Report {
	start := time.Now()
	res, r := e.analyze(ctx, req)
	return &Report{
		Tool:          "coral",
		Version:       ReportVersion,
		RunID:         generateRunID(),
		RepositoryURL: req.URL,
		AnalysisType:  r.kind,
		Target:        r.target,
		Result:        res,
		Summary:       ComputeSummary(res.Findings, res.Score),
		Timing: Timing{
			FetchMs: r.fetchMs,
			TotalMs: time.Since(start).Milliseconds(),
		},
	}
}

func (e *Engine) analyze(ctx context.Context, req Request) (Result, *run) {
	r := &run{req: req, kind: req.Type.Resolve(req.URL), state: StateIdle}

	r.enter(StateResolving, nil)
	t, ok := target.Parse(req.URL)
	if !ok {
		r.enter(StateDone, ErrInvalidURL)
		return invalidURLResult(), r
	}
	r.target = &t

	var findings []Finding
	switch r.kind {
	case target.TypePullRequest:
		if !t.HasPR || t.PRNumber == 0 {
			r.enter(StateDone, nil)
			return Result{Findings: []Finding{}, Score: NothingToAnalyze}, r
		}
		r.enter(StateFetching, nil)
		pc, err := e.fetchPull(ctx, t)
		if err != nil {
			r.enter(StateDone, err)
			return upstreamErrorResult(err), r
		}
		r.enter(StateScoring, nil)
		findings = e.rules.EvaluatePull(pc)
	default:
		r.enter(StateFetching, nil)
		rc, err := e.fetchRepo(ctx, t)
		if err != nil {
			r.enter(StateDone, err)
			return upstreamErrorResult(err), r
		}
		r.enter(StateScoring, nil)
		findings = e.rules.EvaluateRepo(rc)
	}

	if findings == nil {
		findings = []Finding{}
	}
	res := Result{Findings: findings, Score: Score(findings)}
	r.enter(StateDone, nil)
	return res, r
}

// fetchRepo loads repository metadata and languages concurrently, then
// probes for a README. A languages failure degrades to no languages.
func (e *Engine) fetchRepo(ctx context.Context, t target.Target) (RepoContext, error) {
	var rc RepoContext

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := e.fetcher.Repo(gctx, t.Owner, t.Repo)
		if err != nil {
			return err
		}
		rc.Info = info
		return nil
	})
	g.Go(func() error {
		langs, err := e.fetcher.Languages(gctx, t.Owner, t.Repo)
		if err == nil {
			rc.Languages = langs
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return RepoContext{}, err
	}

	rc.ReadmeErr = e.fetcher.Readme(ctx, t.Owner, t.Repo)
	return rc, nil
}

// fetchPull loads the pull request and its files concurrently. Either
// failure fails the pair.
func (e *Engine) fetchPull(ctx context.Context, t target.Target) (PullContext, error) {
	var pc PullContext

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := e.fetcher.PullRequest(gctx, t.Owner, t.Repo, t.PRNumber)
		if err != nil {
			return err
		}
		pc.Info = info
		return nil
	})
	g.Go(func() error {
		files, err := e.fetcher.PullRequestFiles(gctx, t.Owner, t.Repo, t.PRNumber)
		if err != nil {
			return err
		}
		pc.Files = files
		return nil
	})
	if err := g.Wait(); err != nil {
		return PullContext{}, err
	}
	return pc, nil
}

func invalidURLResult() Result {
	return Result{
		Findings: []Finding{{
			Agent:       AgentInterface,
			Category:    CategoryQuality,
			Severity:    SeverityMedium,
			Title:       "Invalid GitHub URL",
			Description: "Please provide a valid https://github.com/owner/repo or PR URL.",
		}},
		Score: InvalidURLScore,
	}
}

func upstreamErrorResult(err error) Result {
	return Result{
		Findings: []Finding{{
			Agent:       AgentGitHub,
			Category:    CategoryQuality,
			Severity:    SeverityHigh,
			Title:       "GitHub API error",
			Description: err.Error(),
		}},
		Score: UpstreamErrScore,
	}
}

func generateRunID() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
	return fmt.Sprintf("%x", h[:16])
}
