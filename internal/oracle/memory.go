package oracle

import (
	"fmt"

	"depgraph/internal/logging"
	"depgraph/internal/model"
)

// Universe is the in-memory Oracle. It indexes a fixed package list by name,
// provide and file, scopes the direct filters to the primary repository, and
// simulates install transactions with a greedy closure solver. The simulation
// goal is mutable state shared by every transaction probe; callers reset it
// between simulations.
type Universe struct {
	primaryRepo string

	packages   []*model.Package
	byName     map[string][]*model.Package
	byProvides map[string][]*model.Package // keyed by stripped provide name
	byFile     map[string][]*model.Package

	goal []*model.Package
}

// NewUniverse indexes the given packages. Packages with an empty Repo are
// assigned to the primary repository. Input order is preserved everywhere:
// iteration, filter results and solver candidate selection all follow it.
func NewUniverse(primaryRepo string, pkgs ...*model.Package) *Universe {
	u := &Universe{
		primaryRepo: primaryRepo,
		byName:      make(map[string][]*model.Package),
		byProvides:  make(map[string][]*model.Package),
		byFile:      make(map[string][]*model.Package),
	}
	for _, p := range pkgs {
		u.Add(p)
	}
	return u
}

// Add indexes one more package. Only valid before resolution starts.
func (u *Universe) Add(p *model.Package) {
	if p.Repo == "" {
		p.Repo = u.primaryRepo
	}
	u.packages = append(u.packages, p)
	u.byName[p.Name] = append(u.byName[p.Name], p)
	for _, pr := range p.Provides {
		key := model.StripToken(pr)
		u.byProvides[key] = append(u.byProvides[key], p)
	}
	for _, f := range p.Files {
		u.byFile[f] = append(u.byFile[f], p)
	}
}

// PrimaryRepo returns the repository label the direct filters are scoped to.
func (u *Universe) PrimaryRepo() string { return u.primaryRepo }

// IterateAvailable returns every package in indexing order.
func (u *Universe) IterateAvailable() []*model.Package {
	res := make([]*model.Package, len(u.packages))
	copy(res, u.packages)
	return res
}

func (u *Universe) primaryOnly(pkgs []*model.Package) []*model.Package {
	var res []*model.Package
	for _, p := range pkgs {
		if p.Repo == u.primaryRepo {
			res = append(res, p)
		}
	}
	return res
}

// FilterByName returns primary-repository packages with this exact name.
func (u *Universe) FilterByName(name string) []*model.Package {
	return u.primaryOnly(u.byName[name])
}

// FilterByProvides returns primary-repository packages advertising the
// capability, ignoring any version constraint on the token.
func (u *Universe) FilterByProvides(token string) []*model.Package {
	return u.primaryOnly(u.byProvides[model.StripToken(token)])
}

// FilterByFile returns primary-repository packages shipping the path.
func (u *Universe) FilterByFile(path string) []*model.Package {
	return u.primaryOnly(u.byFile[path])
}

func within(pkgs, installSet []*model.Package) []*model.Package {
	member := make(map[*model.Package]struct{}, len(installSet))
	for _, p := range installSet {
		member[p] = struct{}{}
	}
	var res []*model.Package
	for _, p := range pkgs {
		if _, ok := member[p]; ok {
			res = append(res, p)
		}
	}
	return res
}

// FilterByProvidesWithin restricts the provides filter to an install set.
// Unlike the direct filter this sees all repositories.
func (u *Universe) FilterByProvidesWithin(token string, installSet []*model.Package) []*model.Package {
	return within(u.byProvides[model.StripToken(token)], installSet)
}

// FilterByFileWithin restricts the file filter to an install set.
func (u *Universe) FilterByFileWithin(path string, installSet []*model.Package) []*model.Package {
	return within(u.byFile[path], installSet)
}

// candidates returns every package in any repository that could satisfy the
// token: by advertised provide, by exact name, or by shipped file path.
// Provide matches come first, then name matches, then file matches, each
// group in universe order; first-seen name deduplication.
func (u *Universe) candidates(token string) []*model.Package {
	key := model.StripToken(token)
	var res []*model.Package
	res = append(res, u.byProvides[key]...)
	res = append(res, u.byName[key]...)
	if model.IsFileToken(key) {
		res = append(res, u.byFile[key]...)
	}
	return model.FilterDuplicates(res)
}

// TryInstall marks the best candidate for a token in the simulation goal.
func (u *Universe) TryInstall(token string) error {
	cands := u.candidates(token)
	if len(cands) == 0 {
		return &MarkingError{Token: token}
	}
	u.goal = append(u.goal, cands[0])
	return nil
}

// TryInstallPackage marks a concrete package in the simulation goal.
func (u *Universe) TryInstallPackage(p *model.Package) error {
	if p == nil {
		return &MarkingError{Token: "<nil package>"}
	}
	u.goal = append(u.goal, p)
	return nil
}

// ResolveTransaction computes the install set as the requirement closure of
// the goal: every requirement of every selected package must itself have a
// candidate, the first of which is selected in turn. An unsatisfiable
// requirement fails the whole transaction.
func (u *Universe) ResolveTransaction() ([]*model.Package, error) {
	timer := logging.StartTimer(logging.CategoryOracle, "ResolveTransaction")
	defer timer.Stop()

	installSet := make([]*model.Package, 0, len(u.goal))
	selected := make(map[*model.Package]struct{})
	queue := make([]*model.Package, 0, len(u.goal))
	for _, p := range u.goal {
		if _, ok := selected[p]; ok {
			continue
		}
		selected[p] = struct{}{}
		installSet = append(installSet, p)
		queue = append(queue, p)
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, req := range p.Requires {
			cands := u.candidates(req)
			if len(cands) == 0 {
				return nil, &DepsolveError{
					Token:  req,
					Reason: fmt.Sprintf("required by %s", p),
				}
			}
			c := cands[0]
			if _, ok := selected[c]; ok {
				continue
			}
			selected[c] = struct{}{}
			installSet = append(installSet, c)
			queue = append(queue, c)
		}
	}
	return installSet, nil
}

// ResetGoal clears the simulation goal. Idempotent.
func (u *Universe) ResetGoal() {
	u.goal = u.goal[:0]
}

// GoalSize reports how many packages are currently marked. The resolver must
// leave this at zero after every transaction probe.
func (u *Universe) GoalSize() int { return len(u.goal) }
