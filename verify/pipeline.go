package verify

import (
	"context"
	"log/slog"
)

// Pipeline drives one verification run at a time. It owns the step state and
// the fail flag; the network, subprocess, and filesystem collaborators are
// injected and never retried.
type Pipeline struct {
	source MetadataSource
	runner Runner
	ws     Workspace
	render RenderFunc

	git string
	npm string

	progress *progress
	failed   bool
	cause    error
	report   Report
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRender sets the hook invoked with the full step state after every
// update.
func WithRender(render RenderFunc) Option {
	return func(p *Pipeline) { p.render = render }
}

// WithGitBinary overrides the git executable. Defaults to "git" via PATH.
func WithGitBinary(path string) Option {
	return func(p *Pipeline) {
		if path != "" {
			p.git = path
		}
	}
}

// WithNpmBinary overrides the package tool executable. Defaults to "npm".
func WithNpmBinary(path string) Option {
	return func(p *Pipeline) {
		if path != "" {
			p.npm = path
		}
	}
}

// New creates a Pipeline around the given collaborators.
func New(source MetadataSource, runner Runner, ws Workspace, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:   source,
		runner:   runner,
		ws:       ws,
		git:      "git",
		npm:      "npm",
		progress: newProgress(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report summarizes the most recent run for callers that want more than the
// boolean: the resolved version, the repository, the ref that was fetched,
// and both digests.
type Report struct {
	Version        string
	RepoURL        string
	Refspec        string
	RegistryShasum string
	RemoteShasum   string
}

// Verify runs the full pipeline for one package. It never returns an error:
// every internal fault becomes a failed step, and the result is the boolean
// plus the final step state. Runs are not concurrent-safe; one Pipeline
// serves one run at a time.
func (p *Pipeline) Verify(ctx context.Context, name, versionSpec string) bool {
	p.Reset()

	info, ok := p.resolve(ctx, name, versionSpec)
	if !ok {
		return false
	}
	co, ok := p.checkout(ctx, info)
	if !ok {
		return false
	}
	pk, ok := p.pack(ctx, co.Dir)
	if !ok {
		return false
	}
	p.compare(info.Shasum, pk.RemoteShasum)
	return !p.failed
}

// Reset returns every step to Pending and clears the fail flag and report so
// no state leaks between runs.
func (p *Pipeline) Reset() {
	p.progress.reset()
	p.failed = false
	p.cause = nil
	p.report = Report{}
}

// Progress returns the current step state.
func (p *Pipeline) Progress() Snapshot {
	return p.progress.snapshot()
}

// Failed reports whether any step of the current run has failed.
func (p *Pipeline) Failed() bool { return p.failed }

// Cause returns the error behind the first failed step, nil when none.
func (p *Pipeline) Cause() error { return p.cause }

// Report returns the summary of the most recent run.
func (p *Pipeline) Report() Report { return p.report }

// update sets one step's status and message, latches the fail flag on Fail,
// and hands the full state to the render hook.
func (p *Pipeline) update(id StepID, status Status, message string) {
	p.progress.set(id, status, message)
	if status == StatusFail {
		p.failed = true
	}
	if p.render != nil {
		p.render(p.progress.snapshot())
	}
}

// fail marks the step failed and records the underlying cause of the first
// failure for callers and the debug log.
func (p *Pipeline) fail(id StepID, message string, err error) {
	if p.cause == nil {
		p.cause = err
	}
	slog.Debug("verification step failed", "step", string(id), "err", err)
	p.update(id, StatusFail, message)
}

// compare checks the registry digest against the rebuilt one. Exact string
// equality; anything else fails the run.
func (p *Pipeline) compare(registrySum, remoteSum string) {
	p.update(StepCompare, StatusWorking, "")
	if registrySum == remoteSum {
		p.update(StepCompare, StatusPass, "")
		return
	}
	p.fail(StepCompare, "Shasums do not match", &MismatchError{Registry: registrySum, Remote: remoteSum})
}
