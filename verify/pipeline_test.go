package verify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"veripack/registry"
)

const (
	testHead = "6f07ab4b1a6bd8ff8eb1d5ca2b06b33e67ad4c9f"
	testSum  = "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	otherSum = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

type fakeSource struct {
	doc *registry.Packument
	err error
}

func (f *fakeSource) Packument(context.Context, string) (*registry.Packument, error) {
	return f.doc, f.err
}

// fakeRunner resolves commands by their argument string. Commands listed in
// fail always fail; commands in failOnce fail on the first attempt only.
type fakeRunner struct {
	out      map[string]string
	fail     map[string]error
	failOnce map[string]error
	calls    []string
}

func (f *fakeRunner) Run(_ context.Context, _, name string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, name+" "+key)
	if err, ok := f.failOnce[key]; ok {
		delete(f.failOnce, key)
		return "", err
	}
	if err, ok := f.fail[key]; ok {
		return "", err
	}
	return f.out[key], nil
}

type fakeWorkspace struct {
	dir string
	err error
}

func (f *fakeWorkspace) TempDir() (string, error) { return f.dir, f.err }

func testPackument(mutate func(m *registry.VersionManifest)) *registry.Packument {
	manifest := registry.VersionManifest{
		Repository: &registry.Repository{Type: "git", URL: "git+https://github.com/o/r.git"},
		GitHead:    testHead,
		Dist:       &registry.Dist{Shasum: testSum},
	}
	if mutate != nil {
		mutate(&manifest)
	}
	return &registry.Packument{
		Name:     "pkg",
		DistTags: map[string]string{"latest": "1.2.3"},
		Versions: map[string]registry.VersionManifest{"1.2.3": manifest},
	}
}

func newTestPipeline(doc *registry.Packument, runner *fakeRunner, opts ...Option) *Pipeline {
	return New(&fakeSource{doc: doc}, runner, &fakeWorkspace{dir: "/scratch/run"}, opts...)
}

func packOutput(sum string) string {
	return "npm notice package: pkg@1.2.3\nnpm notice shasum:  " + sum + "\nnpm notice total files: 4\n"
}

func TestVerifySuccessWithGitHead(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{out: map[string]string{"pack --dry-run": packOutput(testSum)}}
	pipe := newTestPipeline(testPackument(nil), runner)

	if !pipe.Verify(context.Background(), "pkg", "") {
		t.Fatalf("Verify() = false, want true; cause = %v", pipe.Cause())
	}

	snap := pipe.Progress()
	for _, id := range []StepID{StepRegistry, StepRepo, StepGitHead, StepCheckout, StepPack, StepCompare} {
		if got := snap.Step(id).Status; got != StatusPass {
			t.Errorf("step %s = %s, want pass", id, got)
		}
	}
	if got := snap.Step(StepInstall).Status; got != StatusSkipped {
		t.Errorf("install = %s, want skipped", got)
	}

	rep := pipe.Report()
	if rep.Refspec != testHead {
		t.Errorf("refspec = %q, want the recorded gitHead", rep.Refspec)
	}
	if rep.Version != "1.2.3" || rep.RegistryShasum != testSum || rep.RemoteShasum != testSum {
		t.Errorf("report = %+v", rep)
	}

	// The commit hash is authoritative: no tag fetch may be attempted.
	for _, call := range runner.calls {
		if strings.Contains(call, "tags/") {
			t.Fatalf("unexpected tag fetch %q", call)
		}
	}
}

func TestVerifyRepositoryTypeMismatchHalts(t *testing.T) {
	t.Parallel()

	doc := testPackument(func(m *registry.VersionManifest) {
		m.Repository = &registry.Repository{Type: "svn", URL: "https://svn.example.com/r"}
	})
	runner := &fakeRunner{}
	pipe := newTestPipeline(doc, runner)

	if pipe.Verify(context.Background(), "pkg", "") {
		t.Fatal("Verify() = true, want false")
	}

	snap := pipe.Progress()
	repo := snap.Step(StepRepo)
	if repo.Status != StatusFail {
		t.Fatalf("repo = %s, want fail", repo.Status)
	}
	if !strings.Contains(repo.Message, "svn") {
		t.Fatalf("repo message %q does not name the offending type", repo.Message)
	}
	for _, id := range []StepID{StepCheckout, StepInstall, StepPack, StepCompare} {
		if got := snap.Step(id).Status; got != StatusPending {
			t.Errorf("step %s = %s, want pending after halt", id, got)
		}
	}
	if len(runner.calls) != 0 {
		t.Fatalf("runner was invoked after halt: %v", runner.calls)
	}

	var rerr *registry.ResolutionError
	if !errors.As(pipe.Cause(), &rerr) {
		t.Fatalf("cause = %v, want *registry.ResolutionError", pipe.Cause())
	}
}

func TestVerifyTagFallbackWithoutGitHead(t *testing.T) {
	t.Parallel()

	doc := testPackument(func(m *registry.VersionManifest) { m.GitHead = "" })
	runner := &fakeRunner{
		out:  map[string]string{"pack --dry-run": packOutput(testSum)},
		fail: map[string]error{"fetch --depth 1 origin tags/v1.2.3": errors.New("couldn't find remote ref")},
	}

	var sawWarn bool
	pipe := newTestPipeline(doc, runner, WithRender(func(snap Snapshot) {
		if snap.Step(StepGitHead).Status == StatusWarn {
			sawWarn = true
		}
	}))

	if !pipe.Verify(context.Background(), "pkg", "") {
		t.Fatalf("Verify() = false, want true; cause = %v", pipe.Cause())
	}
	if !sawWarn {
		t.Error("gitHead never reported warn")
	}
	if got := pipe.Progress().Step(StepGitHead).Status; got != StatusPass {
		t.Errorf("gitHead final = %s, want pass (warn never blocks)", got)
	}
	if got := pipe.Report().Refspec; got != "tags/1.2.3" {
		t.Errorf("refspec = %q, want tags/1.2.3", got)
	}
}

func TestVerifyBothTagConventionsMissing(t *testing.T) {
	t.Parallel()

	doc := testPackument(func(m *registry.VersionManifest) { m.GitHead = "" })
	runner := &fakeRunner{fail: map[string]error{
		"fetch --depth 1 origin tags/v1.2.3": errors.New("no ref"),
		"fetch --depth 1 origin tags/1.2.3":  errors.New("no ref"),
	}}
	pipe := newTestPipeline(doc, runner)

	if pipe.Verify(context.Background(), "pkg", "") {
		t.Fatal("Verify() = true, want false")
	}
	msg := pipe.Progress().Step(StepCheckout).Message
	if !strings.Contains(msg, "tags/v1.2.3") || !strings.Contains(msg, "tags/1.2.3") {
		t.Fatalf("checkout message %q does not name both attempted refs", msg)
	}
}

func TestVerifyShasumMismatch(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{out: map[string]string{"pack --dry-run": packOutput(otherSum)}}
	pipe := newTestPipeline(testPackument(nil), runner)

	if pipe.Verify(context.Background(), "pkg", "") {
		t.Fatal("Verify() = true, want false")
	}

	compare := pipe.Progress().Step(StepCompare)
	if compare.Status != StatusFail || compare.Message != "Shasums do not match" {
		t.Fatalf("compare = %s %q", compare.Status, compare.Message)
	}

	var merr *MismatchError
	if !errors.As(pipe.Cause(), &merr) {
		t.Fatalf("cause = %v, want *MismatchError", pipe.Cause())
	}
}

func TestVerifyInstallFallback(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		out:      map[string]string{"pack --dry-run": packOutput(testSum)},
		failOnce: map[string]error{"pack --dry-run": errors.New("prepare script failed")},
	}

	var sawWaiting bool
	pipe := newTestPipeline(testPackument(nil), runner, WithRender(func(snap Snapshot) {
		step := snap.Step(StepPack)
		if step.Status == StatusPending && step.Message == "Waiting for dependencies" {
			sawWaiting = true
		}
	}))

	if !pipe.Verify(context.Background(), "pkg", "") {
		t.Fatalf("Verify() = false, want true; cause = %v", pipe.Cause())
	}
	if !sawWaiting {
		t.Error("pack never reported waiting for dependencies")
	}

	snap := pipe.Progress()
	if got := snap.Step(StepInstall).Status; got != StatusPass {
		t.Errorf("install = %s, want pass", got)
	}
	if got := snap.Step(StepPack).Status; got != StatusPass {
		t.Errorf("pack = %s, want pass", got)
	}

	var sawInstall bool
	for _, call := range runner.calls {
		if strings.HasSuffix(call, " ci") {
			sawInstall = true
		}
	}
	if !sawInstall {
		t.Fatalf("clean install never ran: %v", runner.calls)
	}
}

func TestVerifyInstallFailureHalts(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		failOnce: map[string]error{"pack --dry-run": errors.New("prepare script failed")},
		fail:     map[string]error{"ci": errors.New("network down")},
	}
	pipe := newTestPipeline(testPackument(nil), runner)

	if pipe.Verify(context.Background(), "pkg", "") {
		t.Fatal("Verify() = true, want false")
	}

	snap := pipe.Progress()
	if got := snap.Step(StepInstall); got.Status != StatusFail || got.Message != "Error installing dependencies" {
		t.Fatalf("install = %s %q", got.Status, got.Message)
	}
	if got := snap.Step(StepCompare).Status; got != StatusPending {
		t.Errorf("compare = %s, want pending", got)
	}
}

func TestVerifyRegistryUnreachable(t *testing.T) {
	t.Parallel()

	pipe := New(&fakeSource{err: &registry.NetworkError{URL: "https://registry.npmjs.org/pkg", Err: errors.New("dial tcp: timeout")}},
		&fakeRunner{}, &fakeWorkspace{dir: "/scratch/run"})

	if pipe.Verify(context.Background(), "pkg", "") {
		t.Fatal("Verify() = true, want false")
	}
	step := pipe.Progress().Step(StepRegistry)
	if step.Status != StatusFail || step.Message != "Error fetching package data from registry" {
		t.Fatalf("registry = %s %q", step.Status, step.Message)
	}
}

func TestVerifyUnresolvableVersion(t *testing.T) {
	t.Parallel()

	doc := &registry.Packument{DistTags: map[string]string{}, Versions: map[string]registry.VersionManifest{}}
	pipe := New(&fakeSource{doc: doc}, &fakeRunner{}, &fakeWorkspace{dir: "/scratch/run"})

	if pipe.Verify(context.Background(), "pkg", "") {
		t.Fatal("Verify() = true, want false")
	}
	msg := pipe.Progress().Step(StepRegistry).Message
	if msg != "Cannot resolve version latest" {
		t.Fatalf("registry message = %q", msg)
	}
}

func TestVerifyTempDirFailureHalts(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	pipe := New(&fakeSource{doc: testPackument(nil)}, runner, &fakeWorkspace{err: errors.New("no space left on device")})

	if pipe.Verify(context.Background(), "pkg", "") {
		t.Fatal("Verify() = true, want false")
	}
	step := pipe.Progress().Step(StepCheckout)
	if step.Status != StatusFail || step.Message != "Error creating temp directory" {
		t.Fatalf("checkout = %s %q", step.Status, step.Message)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("runner invoked without a scratch directory: %v", runner.calls)
	}
}

func TestResetClearsStateBetweenRuns(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{fail: map[string]error{"init": errors.New("boom")}}
	pipe := newTestPipeline(testPackument(nil), runner)

	if pipe.Verify(context.Background(), "pkg", "") {
		t.Fatal("first run should fail")
	}
	if !pipe.Failed() {
		t.Fatal("fail flag not latched")
	}

	pipe.Reset()
	if pipe.Failed() {
		t.Error("fail flag survived Reset")
	}
	if pipe.Cause() != nil {
		t.Error("cause survived Reset")
	}
	for _, step := range pipe.Progress().Steps {
		if step.Status != StatusPending {
			t.Errorf("step %s = %s after Reset, want pending", step.ID, step.Status)
		}
		if step.Message != "" {
			t.Errorf("step %s message %q after Reset", step.ID, step.Message)
		}
	}
}

func TestRenderSeesEveryUpdate(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{out: map[string]string{"pack --dry-run": packOutput(testSum)}}

	var updates int
	pipe := newTestPipeline(testPackument(nil), runner, WithRender(func(Snapshot) { updates++ }))
	pipe.Verify(context.Background(), "pkg", "")

	// Working+terminal for six steps plus the skipped install.
	if updates < 13 {
		t.Fatalf("render hook saw %d updates, want at least 13", updates)
	}
}

func TestExtractShasum(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		out     string
		want    string
		wantErr bool
	}{
		{
			name: "npm notice block",
			out:  packOutput(testSum),
			want: testSum,
		},
		{
			name: "minimal line",
			out:  "shasum: " + testSum,
			want: testSum,
		},
		{
			name:    "no digest",
			out:     "npm notice total files: 4",
			wantErr: true,
		},
		{
			name:    "short digest",
			out:     "shasum: deadbeef",
			wantErr: true,
		},
		{
			name:    "uppercase hex rejected",
			out:     "shasum: " + strings.ToUpper(testSum),
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractShasum(tc.out)
			if tc.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("error = %v, want *ParseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractShasum() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("ExtractShasum() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	want := map[Status]string{
		StatusPending: "pending",
		StatusWorking: "working",
		StatusPass:    "pass",
		StatusFail:    "fail",
		StatusWarn:    "warn",
		StatusSkipped: "skipped",
		Status(99):    "unknown",
	}
	for status, str := range want {
		if status.String() != str {
			t.Errorf("Status(%d).String() = %q, want %q", status, status.String(), str)
		}
	}
}
