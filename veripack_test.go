package veripack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"veripack/verify"
)

// These tests only exercise paths that halt before any subprocess runs; the
// full phase matrix is covered with fakes in the verify package.

func TestVerifyNonGitRepositoryHaltsBeforeCheckout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"name": "pkg",
			"dist-tags": {"latest": "1.0.0"},
			"versions": {"1.0.0": {"repository": {"type": "svn", "url": "https://svn.example.com/r"}}}
		}`))
	}))
	defer srv.Close()

	res := Verify(context.Background(), "pkg", "",
		WithRegistryURL(srv.URL), WithHTTPClient(srv.Client()))

	if res.Verified {
		t.Fatal("Verified = true, want false")
	}
	if res.Version != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", res.Version)
	}
	if res.Cause == nil {
		t.Error("Cause is nil for a failed run")
	}

	var repoStatus, checkoutStatus verify.Status
	for _, step := range res.Steps {
		switch step.ID {
		case verify.StepRepo:
			repoStatus = step.Status
		case verify.StepCheckout:
			checkoutStatus = step.Status
		}
	}
	if repoStatus != verify.StatusFail {
		t.Errorf("repo = %s, want fail", repoStatus)
	}
	if checkoutStatus != verify.StatusPending {
		t.Errorf("checkout = %s, want pending", checkoutStatus)
	}
}

func TestVerifyRegistryDown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	srv.Close() // immediately unreachable

	var snapshots int
	res := Verify(context.Background(), "pkg", "",
		WithRegistryURL(srv.URL),
		WithRender(func(verify.Snapshot) { snapshots++ }))

	if res.Verified {
		t.Fatal("Verified = true, want false")
	}
	if snapshots == 0 {
		t.Error("render hook never invoked")
	}
}
