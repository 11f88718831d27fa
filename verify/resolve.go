package verify

import (
	"context"
	"fmt"

	"veripack/registry"
)

// resolved carries the registry phase's output into checkout and compare.
type resolved struct {
	Version string
	RepoURL string
	GitHead string
	Shasum  string
}

// resolve covers the registry, repo, and gitHead steps: fetch the packument,
// pin a concrete version, and validate the repository claim.
func (p *Pipeline) resolve(ctx context.Context, name, versionSpec string) (resolved, bool) {
	p.update(StepRegistry, StatusWorking, "")

	doc, err := p.source.Packument(ctx, name)
	if err != nil {
		p.fail(StepRegistry, "Error fetching package data from registry", err)
		return resolved{}, false
	}

	requested := versionSpec
	if requested == "" {
		requested = "latest"
	}
	version := doc.Resolve(versionSpec)
	if version == "" {
		p.fail(StepRegistry, fmt.Sprintf("Cannot resolve version %s", requested),
			&registry.ResolutionError{Package: name, Detail: "no version matches " + requested})
		return resolved{}, false
	}
	manifest, ok := doc.Versions[version]
	if !ok {
		p.fail(StepRegistry, fmt.Sprintf("Version %s not found in registry", version),
			&registry.ResolutionError{Package: name, Detail: "version " + version + " not published"})
		return resolved{}, false
	}
	p.update(StepRegistry, StatusPass, "")
	p.report.Version = version
	p.report.RegistryShasum = manifest.Shasum()

	p.update(StepRepo, StatusWorking, "")
	repo := manifest.Repository
	switch {
	case repo == nil:
		p.fail(StepRepo, "No repository listed in package metadata",
			&registry.ResolutionError{Package: name, Detail: "missing repository"})
		return resolved{}, false
	case repo.Type != "git":
		p.fail(StepRepo, fmt.Sprintf("Repository type is %s, expected git", repo.Type),
			&registry.ResolutionError{Package: name, Detail: "repository type " + repo.Type})
		return resolved{}, false
	case repo.URL == "":
		p.fail(StepRepo, "Repository entry has no URL",
			&registry.ResolutionError{Package: name, Detail: "missing repository url"})
		return resolved{}, false
	}
	repoURL := registry.NormalizeRepoURL(repo.URL)
	p.update(StepRepo, StatusPass, "")
	p.report.RepoURL = repoURL

	// A missing gitHead is only a warning: checkout falls back to version
	// tags, so the step still completes as passed and the run continues.
	p.update(StepGitHead, StatusWorking, "")
	msg := ""
	if manifest.GitHead == "" {
		msg = "No gitHead recorded for this version"
		p.update(StepGitHead, StatusWarn, msg)
	}
	p.update(StepGitHead, StatusPass, msg)

	return resolved{
		Version: version,
		RepoURL: repoURL,
		GitHead: manifest.GitHead,
		Shasum:  manifest.Shasum(),
	}, true
}
