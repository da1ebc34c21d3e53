package oracle

import (
	"errors"
	"testing"

	"depgraph/internal/model"
)

func testUniverse() *Universe {
	return NewUniverse("rawhide",
		&model.Package{Name: "alpha", Version: "1", Provides: []string{"libalpha"}},
		&model.Package{Name: "alpha", Version: "2", Provides: []string{"libalpha"}},
		&model.Package{Name: "beta", Files: []string{"/usr/bin/beta"}},
		&model.Package{Name: "gamma", Repo: "updates", Provides: []string{"virt-cap"}},
		&model.Package{Name: "delta", Requires: []string{"libalpha"}},
	)
}

func TestFiltersScopedToPrimaryRepo(t *testing.T) {
	u := testUniverse()

	if res := u.FilterByProvides("libalpha"); len(res) != 2 {
		t.Fatalf("expected both alpha versions, got %d", len(res))
	}
	// gamma lives in the updates repo, invisible to direct filters.
	if res := u.FilterByProvides("virt-cap"); len(res) != 0 {
		t.Fatalf("direct filter leaked non-primary package: %v", res)
	}
	if res := u.FilterByName("gamma"); len(res) != 0 {
		t.Fatalf("name filter leaked non-primary package: %v", res)
	}
	if res := u.FilterByFile("/usr/bin/beta"); len(res) != 1 || res[0].Name != "beta" {
		t.Fatalf("file filter failed: %v", res)
	}
}

func TestFilterByProvidesStripsVersion(t *testing.T) {
	u := testUniverse()
	if res := u.FilterByProvides("libalpha >= 1.0"); len(res) != 2 {
		t.Fatalf("versioned token should match stripped provide, got %d", len(res))
	}
}

func TestIterateAvailableOrder(t *testing.T) {
	u := testUniverse()
	pkgs := u.IterateAvailable()
	if len(pkgs) != 5 {
		t.Fatalf("expected 5 packages, got %d", len(pkgs))
	}
	if pkgs[0].Name != "alpha" || pkgs[0].Version != "1" {
		t.Errorf("iteration order not preserved: first is %v", pkgs[0])
	}
}

func TestTryInstallMarkingError(t *testing.T) {
	u := testUniverse()
	err := u.TryInstall("no-such-thing")
	var me *MarkingError
	if !errors.As(err, &me) {
		t.Fatalf("expected MarkingError, got %v", err)
	}
	if u.GoalSize() != 0 {
		t.Errorf("failed marking must not grow the goal, size=%d", u.GoalSize())
	}
}

func TestResolveTransactionClosure(t *testing.T) {
	u := testUniverse()
	// delta requires libalpha; the closure must pull in the first alpha.
	if err := u.TryInstall("delta"); err != nil {
		t.Fatalf("TryInstall failed: %v", err)
	}
	set, err := u.ResolveTransaction()
	if err != nil {
		t.Fatalf("ResolveTransaction failed: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected install set of 2, got %d", len(set))
	}
	if set[0].Name != "delta" {
		t.Errorf("goal package must lead the set, got %s", set[0].Name)
	}
	if set[1].Name != "alpha" || set[1].Version != "1" {
		t.Errorf("closure must select the first candidate, got %v", set[1])
	}
	u.ResetGoal()
}

func TestResolveTransactionDepsolveError(t *testing.T) {
	u := NewUniverse("rawhide",
		&model.Package{Name: "broken", Requires: []string{"missing-cap"}},
	)
	if err := u.TryInstall("broken"); err != nil {
		t.Fatalf("TryInstall failed: %v", err)
	}
	_, err := u.ResolveTransaction()
	var de *DepsolveError
	if !errors.As(err, &de) {
		t.Fatalf("expected DepsolveError, got %v", err)
	}
	if de.Token != "missing-cap" {
		t.Errorf("error should name the unsatisfied requirement, got %q", de.Token)
	}
	u.ResetGoal()
}

func TestTryInstallNonPrimaryCandidate(t *testing.T) {
	u := testUniverse()
	// The transaction path sees all repositories, unlike the direct filters.
	if err := u.TryInstall("virt-cap"); err != nil {
		t.Fatalf("TryInstall failed: %v", err)
	}
	set, err := u.ResolveTransaction()
	if err != nil {
		t.Fatalf("ResolveTransaction failed: %v", err)
	}
	if len(set) != 1 || set[0].Name != "gamma" {
		t.Fatalf("expected gamma in install set, got %v", set)
	}
	u.ResetGoal()
}

func TestResetGoalIdempotent(t *testing.T) {
	u := testUniverse()
	u.ResetGoal()
	u.ResetGoal()
	if u.GoalSize() != 0 {
		t.Fatalf("goal not empty after reset")
	}
	if err := u.TryInstall("beta"); err != nil {
		t.Fatalf("TryInstall failed: %v", err)
	}
	if u.GoalSize() != 1 {
		t.Fatalf("expected goal size 1, got %d", u.GoalSize())
	}
	u.ResetGoal()
	if u.GoalSize() != 0 {
		t.Fatalf("goal survived reset")
	}
}

func TestWithinFilters(t *testing.T) {
	u := testUniverse()
	all := u.IterateAvailable()
	set := []*model.Package{all[0], all[2]} // alpha-1, beta

	res := u.FilterByProvidesWithin("libalpha", set)
	if len(res) != 1 || res[0] != all[0] {
		t.Fatalf("provides-within mismatch: %v", res)
	}
	res = u.FilterByFileWithin("/usr/bin/beta", set)
	if len(res) != 1 || res[0] != all[2] {
		t.Fatalf("file-within mismatch: %v", res)
	}
	if res := u.FilterByFileWithin("/usr/bin/beta", set[:1]); len(res) != 0 {
		t.Fatalf("file-within leaked outside the install set: %v", res)
	}
}
