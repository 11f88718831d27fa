package verify

import (
	"context"
	"regexp"
)

var shasumPattern = regexp.MustCompile(`shasum:\s+([0-9a-f]{40})`)

// packResult carries the rebuilt archive digest into the compare phase.
type packResult struct {
	RemoteShasum string
}

// pack reproduces the package archive from the checkout and extracts its
// digest. A dry-run pack is tried first; when it fails (typically because a
// prepare script needs node_modules) a clean lockfile-exact install runs and
// the pack is retried once.
func (p *Pipeline) pack(ctx context.Context, dir string) (packResult, bool) {
	p.update(StepPack, StatusWorking, "")

	out, err := p.runner.Run(ctx, dir, p.npm, "pack", "--dry-run")
	if err == nil {
		p.update(StepInstall, StatusSkipped, "Dependencies not needed")
	} else {
		p.update(StepPack, StatusPending, "Waiting for dependencies")
		p.update(StepInstall, StatusWorking, "")
		if _, err := p.runner.Run(ctx, dir, p.npm, "ci"); err != nil {
			p.fail(StepInstall, "Error installing dependencies", err)
			return packResult{}, false
		}
		p.update(StepInstall, StatusPass, "")

		p.update(StepPack, StatusWorking, "")
		out, err = p.runner.Run(ctx, dir, p.npm, "pack", "--dry-run")
		if err != nil {
			p.fail(StepPack, "Error creating package from remote files: "+err.Error(), err)
			return packResult{}, false
		}
	}

	shasum, err := ExtractShasum(out)
	if err != nil {
		p.fail(StepPack, "Error parsing shasum from pack output", err)
		return packResult{}, false
	}
	p.report.RemoteShasum = shasum

	p.update(StepPack, StatusPass, "")
	return packResult{RemoteShasum: shasum}, true
}

// ExtractShasum pulls the 40-hex archive digest out of pack command output.
func ExtractShasum(out string) (string, error) {
	m := shasumPattern.FindStringSubmatch(out)
	if m == nil {
		return "", &ParseError{Pattern: shasumPattern.String()}
	}
	return m[1], nil
}
