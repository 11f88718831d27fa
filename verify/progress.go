// Package verify implements the source-verification pipeline: resolve
// registry metadata, shallow-fetch the claimed commit or tag into a scratch
// directory, reproduce the package archive, and compare content digests.
package verify

// Status describes one pipeline step's state.
type Status uint8

const (
	StatusPending Status = iota
	StatusWorking
	StatusPass
	StatusFail
	StatusWarn
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusWorking:
		return "working"
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusWarn:
		return "warn"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StepID names one step of the verification run.
type StepID string

const (
	StepRegistry StepID = "registry"
	StepRepo     StepID = "repo"
	StepGitHead  StepID = "gitHead"
	StepCheckout StepID = "checkout"
	StepInstall  StepID = "install"
	StepPack     StepID = "pack"
	StepCompare  StepID = "compare"
)

// StepOrder is the fixed execution and rendering order.
var StepOrder = []StepID{
	StepRegistry,
	StepRepo,
	StepGitHead,
	StepCheckout,
	StepInstall,
	StepPack,
	StepCompare,
}

var stepTitles = map[StepID]string{
	StepRegistry: "Fetching package metadata",
	StepRepo:     "Locating source repository",
	StepGitHead:  "Resolving published commit",
	StepCheckout: "Checking out remote source",
	StepInstall:  "Installing dependencies",
	StepPack:     "Packing remote source",
	StepCompare:  "Comparing shasums",
}

// Step is one row of the run's checklist.
type Step struct {
	ID      StepID
	Title   string
	Status  Status
	Message string
}

// Snapshot is an ordered copy of every step's state, safe to hand to a
// renderer or to keep after the run.
type Snapshot struct {
	Steps []Step
}

// Step returns the named step from the snapshot, or a zero Step.
func (s Snapshot) Step(id StepID) Step {
	for _, step := range s.Steps {
		if step.ID == id {
			return step
		}
	}
	return Step{}
}

// progress tracks every step of a single run. It is created all-Pending and
// mutated only through the pipeline's update method.
type progress struct {
	steps map[StepID]*Step
}

func newProgress() *progress {
	p := &progress{}
	p.reset()
	return p
}

func (p *progress) reset() {
	p.steps = make(map[StepID]*Step, len(StepOrder))
	for _, id := range StepOrder {
		p.steps[id] = &Step{ID: id, Title: stepTitles[id], Status: StatusPending}
	}
}

func (p *progress) set(id StepID, status Status, message string) {
	step, ok := p.steps[id]
	if !ok {
		return
	}
	step.Status = status
	step.Message = message
}

func (p *progress) snapshot() Snapshot {
	steps := make([]Step, 0, len(StepOrder))
	for _, id := range StepOrder {
		steps = append(steps, *p.steps[id])
	}
	return Snapshot{Steps: steps}
}
