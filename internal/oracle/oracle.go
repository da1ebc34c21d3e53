// Package oracle defines the read-only metadata backend the resolver queries
// and provides an in-memory implementation with a transaction solver. The
// oracle owns the primary-repository scoping and the mutable simulation goal;
// callers must reset the goal on every path out of a simulation.
package oracle

import (
	"fmt"

	"depgraph/internal/model"
)

// MarkingError reports that a token cannot be marked for installation at all:
// nothing in any repository provides it.
type MarkingError struct {
	Token string
}

func (e *MarkingError) Error() string {
	return fmt.Sprintf("oracle: nothing provides %q", e.Token)
}

// DepsolveError reports that the marked goal cannot be resolved into a
// consistent install set.
type DepsolveError struct {
	Token  string
	Reason string
}

func (e *DepsolveError) Error() string {
	return fmt.Sprintf("oracle: cannot resolve transaction for %q: %s", e.Token, e.Reason)
}

// Oracle is the metadata backend the resolver and builder consume. Filters
// named FilterBy* are scoped to the primary repository; the *Within variants
// and the transaction simulation see the whole universe. Implementations are
// synchronous and need not be safe for concurrent use.
type Oracle interface {
	// IterateAvailable returns every available package in a stable order.
	IterateAvailable() []*model.Package

	// FilterByName returns primary-repository packages with this exact name.
	FilterByName(name string) []*model.Package

	// FilterByProvides returns primary-repository packages advertising the
	// capability. Version constraints on the token are ignored.
	FilterByProvides(token string) []*model.Package

	// FilterByFile returns primary-repository packages shipping the path.
	FilterByFile(path string) []*model.Package

	// FilterByProvidesWithin restricts the provides filter to an install set.
	FilterByProvidesWithin(token string, installSet []*model.Package) []*model.Package

	// FilterByFileWithin restricts the file filter to an install set.
	FilterByFileWithin(path string, installSet []*model.Package) []*model.Package

	// TryInstall marks a capability token for installation in the current
	// simulation goal. Returns a *MarkingError when the token is not
	// installable at all.
	TryInstall(token string) error

	// TryInstallPackage marks a concrete package for installation.
	TryInstallPackage(p *model.Package) error

	// ResolveTransaction solves the current goal and returns the install
	// set. Returns a *DepsolveError when the goal is unsatisfiable.
	ResolveTransaction() ([]*model.Package, error)

	// ResetGoal clears the simulation goal. Always succeeds, idempotent.
	ResetGoal()
}
