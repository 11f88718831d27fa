// Package registry talks to an npm-compatible package registry and models
// the slice of its metadata that source verification needs.
package registry

import "strings"

// Packument is the full registry document for one package: every published
// version plus the dist-tag pointers.
type Packument struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]VersionManifest `json:"versions"`
}

// VersionManifest is the metadata recorded for a single published version.
// All fields are optional on the wire; absence is meaningful and checked by
// the verification pipeline.
type VersionManifest struct {
	Repository *Repository `json:"repository,omitempty"`
	GitHead    string      `json:"gitHead,omitempty"`
	Dist       *Dist       `json:"dist,omitempty"`

	// Legacy registries recorded the digest directly on the manifest.
	LegacyShasum string `json:"_shasum,omitempty"`
}

// Repository points at the source-control location a version claims to be
// built from.
type Repository struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Dist describes the published archive.
type Dist struct {
	Shasum  string `json:"shasum"`
	Tarball string `json:"tarball"`
}

// Resolve maps a version spec (a dist-tag name, an exact version, or empty
// for "latest") to a concrete version string. It returns the spec itself
// when no dist-tag matches, and "" when nothing resolves.
func (p *Packument) Resolve(spec string) string {
	tag := spec
	if tag == "" {
		tag = "latest"
	}
	if v := p.DistTags[tag]; v != "" {
		return v
	}
	return spec
}

// Shasum returns the digest recorded for the version. The legacy manifest
// field takes precedence over the dist stanza.
func (m VersionManifest) Shasum() string {
	if m.LegacyShasum != "" {
		return m.LegacyShasum
	}
	if m.Dist != nil {
		return m.Dist.Shasum
	}
	return ""
}

// NormalizeRepoURL strips the "git+" scheme prefix registries record on
// clone URLs. Normalizing an already-normalized URL returns it unchanged.
func NormalizeRepoURL(url string) string {
	return strings.TrimPrefix(url, "git+")
}
