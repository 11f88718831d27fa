package verify

import (
	"context"
	"fmt"
)

// checkoutResult carries the scratch checkout into the pack phase.
type checkoutResult struct {
	Dir     string
	Refspec string
}

// checkout materializes the claimed commit in a fresh scratch directory via
// a shallow fetch. When the registry recorded a gitHead that hash is
// authoritative and no tag fallback is attempted; otherwise the v-prefixed
// tag convention is tried before the bare one.
func (p *Pipeline) checkout(ctx context.Context, info resolved) (checkoutResult, bool) {
	p.update(StepCheckout, StatusWorking, "")

	dir, err := p.ws.TempDir()
	if err != nil {
		p.fail(StepCheckout, "Error creating temp directory", err)
		return checkoutResult{}, false
	}

	if _, err := p.runner.Run(ctx, dir, p.git, "init"); err != nil {
		p.fail(StepCheckout, "Error initializing scratch repository", err)
		return checkoutResult{Dir: dir}, false
	}
	if _, err := p.runner.Run(ctx, dir, p.git, "remote", "add", "origin", info.RepoURL); err != nil {
		p.fail(StepCheckout, fmt.Sprintf("Error adding remote %s", info.RepoURL), err)
		return checkoutResult{Dir: dir}, false
	}

	refspec := ""
	if info.GitHead != "" {
		if _, err := p.runner.Run(ctx, dir, p.git, "fetch", "--depth", "1", "origin", info.GitHead); err != nil {
			p.fail(StepCheckout, fmt.Sprintf("Unable to fetch commit from remote (%s)", shortRef(info.GitHead)), err)
			return checkoutResult{Dir: dir}, false
		}
		refspec = info.GitHead
	} else {
		candidates := []string{"tags/v" + info.Version, "tags/" + info.Version}
		var fetchErr error
		for _, ref := range candidates {
			if _, err := p.runner.Run(ctx, dir, p.git, "fetch", "--depth", "1", "origin", ref); err != nil {
				fetchErr = err
				continue
			}
			refspec = ref
			break
		}
		if refspec == "" {
			p.fail(StepCheckout, fmt.Sprintf("Unable to fetch %s or %s from remote", candidates[0], candidates[1]), fetchErr)
			return checkoutResult{Dir: dir}, false
		}
	}
	p.report.Refspec = refspec

	if _, err := p.runner.Run(ctx, dir, p.git, "checkout", "FETCH_HEAD"); err != nil {
		p.fail(StepCheckout, "Error checking out fetched commit", err)
		return checkoutResult{Dir: dir, Refspec: refspec}, false
	}

	p.update(StepCheckout, StatusPass, "")
	return checkoutResult{Dir: dir, Refspec: refspec}, true
}

func shortRef(ref string) string {
	if len(ref) > 7 {
		return ref[:7]
	}
	return ref
}
