// Package veripack verifies that a package published to an npm-compatible
// registry was actually built from the source-control commit or tag it
// claims: the claimed ref is shallow-fetched, the archive is reproduced with
// a dry-run pack, and the content digests are compared.
package veripack

import (
	"context"
	"net/http"

	"veripack/internal/execrunner"
	"veripack/internal/scratch"
	"veripack/registry"
	"veripack/verify"
)

// Result is the outcome of one verification run.
type Result struct {
	Package        string
	Version        string
	Verified       bool
	RepoURL        string
	Refspec        string
	RegistryShasum string
	RemoteShasum   string

	// Steps is the final checklist state, registry through compare.
	Steps []verify.Step

	// Cause is the error behind the first failed step, nil when verified.
	Cause error
}

type options struct {
	registryURL string
	httpClient  *http.Client
	gitBinary   string
	npmBinary   string
	render      verify.RenderFunc
}

// Option configures a verification run.
type Option func(*options)

// WithRegistryURL points the run at a different registry endpoint.
func WithRegistryURL(url string) Option {
	return func(o *options) { o.registryURL = url }
}

// WithHTTPClient sets the HTTP client used for registry requests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(o *options) { o.httpClient = httpc }
}

// WithGitBinary overrides the git executable.
func WithGitBinary(path string) Option {
	return func(o *options) { o.gitBinary = path }
}

// WithNpmBinary overrides the package tool executable.
func WithNpmBinary(path string) Option {
	return func(o *options) { o.npmBinary = path }
}

// WithRender sets a hook that receives the checklist state after every step
// update.
func WithRender(render verify.RenderFunc) Option {
	return func(o *options) { o.render = render }
}

// Verify runs the full pipeline for one package with real collaborators:
// the HTTP registry client, subprocess git/npm, and system temp directories.
// Scratch checkouts are deleted before it returns. It never returns an
// error; failures are reported through the Result.
func Verify(ctx context.Context, name, versionSpec string, opts ...Option) Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []registry.ClientOption{}
	if o.registryURL != "" {
		clientOpts = append(clientOpts, registry.WithBaseURL(o.registryURL))
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, registry.WithHTTPClient(o.httpClient))
	}

	dirs := scratch.New()
	defer func() { _ = dirs.RemoveAll() }()

	pipe := verify.New(registry.NewClient(clientOpts...), execrunner.New(), dirs,
		verify.WithGitBinary(o.gitBinary),
		verify.WithNpmBinary(o.npmBinary),
		verify.WithRender(o.render),
	)

	verified := pipe.Verify(ctx, name, versionSpec)
	rep := pipe.Report()

	return Result{
		Package:        name,
		Version:        rep.Version,
		Verified:       verified,
		RepoURL:        rep.RepoURL,
		Refspec:        rep.Refspec,
		RegistryShasum: rep.RegistryShasum,
		RemoteShasum:   rep.RemoteShasum,
		Steps:          pipe.Progress().Steps,
		Cause:          pipe.Cause(),
	}
}
