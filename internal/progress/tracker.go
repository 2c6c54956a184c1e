package progress

import (
	"sync"

	"github.com/dshills/coral/internal/review"
	"github.com/dshills/coral/internal/target"
)

// Status is the display state of an agent.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusWorking   Status = "working"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Agent ids.
const (
	AgentInterface         = "interface"
	AgentGitHub            = "github"
	AgentRepoUnderstanding = "repo-understanding"
	AgentCodeReview        = "code-review"
	AgentTestRunner        = "test-runner"
)

// Agent is one cosmetic pipeline stage shown to the user.
type Agent struct {
	ID          string
	Name        string
	Description string
	Status      Status
	Progress    int // 0-100
}

func defaultAgents() []Agent {
	agents := []Agent{
		{ID: AgentInterface, Name: "Interface Agent", Description: "Parses the submitted URL"},
		{ID: AgentGitHub, Name: "GitHub MCP Agent", Description: "Fetches repository data from GitHub"},
		{ID: AgentRepoUnderstanding, Name: "Repo Understanding Agent", Description: "Analyzes repository structure"},
		{ID: AgentCodeReview, Name: "Code Diffs Review Agent", Description: "Reviews pull request changes"},
		{ID: AgentTestRunner, Name: "Unit Test Runner Agent", Description: "Checks test coverage of changes"},
	}
	for i := range agents {
		agents[i].Status = StatusIdle
	}
	return agents
}

// Tracker is a review.Observer that keeps agent state. It is safe for
// concurrent use.
type Tracker struct {
	mu       sync.Mutex
	agents   []Agent
	renderer Renderer
}

// NewTracker creates a tracker with every agent idle. A nil renderer
// disables rendering.
func NewTracker(r Renderer) *Tracker {
	if r == nil {
		r = NoOpRenderer{}
	}
	return &Tracker{agents: defaultAgents(), renderer: r}
}

// OnTransition implements review.Observer.
func (t *Tracker) OnTransition(tr review.Transition) {
	t.mu.Lock()
	switch tr.To {
	case review.StateResolving:
		t.set(StatusWorking, AgentInterface)
	case review.StateFetching:
		t.set(StatusCompleted, AgentInterface)
		t.set(StatusWorking, AgentGitHub)
	case review.StateScoring:
		t.set(StatusCompleted, AgentGitHub)
		if tr.Type == target.TypePullRequest {
			t.set(StatusWorking, AgentCodeReview, AgentTestRunner)
		} else {
			t.set(StatusWorking, AgentRepoUnderstanding)
		}
	case review.StateDone:
		t.finish(tr.Err)
	}
	overall, current := t.overall(), t.current()
	t.mu.Unlock()

	t.renderer.Update(overall, current)
	if tr.To == review.StateDone {
		t.renderer.Close()
	}
}

// finish closes out every agent. A failed run marks the agents that were
// working as errored and leaves the rest idle.
func (t *Tracker) finish(err error) {
	for i := range t.agents {
		a := &t.agents[i]
		if err != nil {
			if a.Status == StatusWorking {
				a.Status = StatusError
			}
			continue
		}
		a.Status = StatusCompleted
		a.Progress = 100
	}
}

func (t *Tracker) set(s Status, ids ...string) {
	for _, id := range ids {
		for i := range t.agents {
			if t.agents[i].ID != id {
				continue
			}
			t.agents[i].Status = s
			switch s {
			case StatusWorking:
				t.agents[i].Progress = 50
			case StatusCompleted:
				t.agents[i].Progress = 100
			}
		}
	}
}

func (t *Tracker) overall() int {
	sum := 0
	for _, a := range t.agents {
		sum += a.Progress
	}
	return sum / len(t.agents)
}

func (t *Tracker) current() string {
	for _, a := range t.agents {
		if a.Status == StatusWorking {
			return a.Name
		}
	}
	return ""
}

// Overall returns the mean agent progress in percent.
func (t *Tracker) Overall() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overall()
}

// Snapshot returns the agent states in report form.
func (t *Tracker) Snapshot() []review.AgentStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]review.AgentStatus, len(t.agents))
	for i, a := range t.agents {
		out[i] = review.AgentStatus{Name: a.Name, Status: string(a.Status)}
	}
	return out
}
