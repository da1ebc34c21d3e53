// Package resolver maps capability tokens onto concrete binary packages and
// extracts the resolved provide/require sets the graph builder consumes.
// Resolution is a pipeline of probes against the oracle; the first probe that
// yields a unique answer wins and its stat counter is incremented. Simple
// probe results are memoized for the lifetime of a build run; transaction
// results are not, because they can depend on the requesting package.
package resolver

import (
	"errors"

	"depgraph/internal/logging"
	"depgraph/internal/model"
	"depgraph/internal/oracle"
)

// Resolver resolves capability tokens against one oracle. Not safe for
// concurrent use: the cache, the stats and the oracle's simulation goal are
// all single-owner state.
type Resolver struct {
	oracle oracle.Oracle
	cache  map[string]*model.Package
	stats  *Stats
}

// New returns a resolver with an empty cache and zeroed stats.
func New(o oracle.Oracle) *Resolver {
	return &Resolver{
		oracle: o,
		cache:  make(map[string]*model.Package),
		stats:  NewStats(),
	}
}

// Stats exposes the resolution counters for progress reports.
func (r *Resolver) Stats() *Stats { return r.stats }

// CacheSize reports how many tokens have been memoized so far.
func (r *Resolver) CacheSize() int { return len(r.cache) }

// Resolve maps a capability token to a single concrete package. A nil result
// with a nil error means the token is unresolved (solver refusal, counted).
// forPkg, when non-nil and a source package, joins the transaction simulation
// so its build-requires can contribute to the install set. The returned error
// is fatal: the transaction fallback succeeded but no probe could attribute
// the token.
func (r *Resolver) Resolve(token string, forPkg *model.Package) (*model.Package, error) {
	// Version constraints are stripped up front; "foo >= 1.2" and "foo"
	// resolve identically and share a cache entry.
	key := model.StripToken(token)

	if p, ok := r.cache[key]; ok {
		r.stats.bump(StatCache)
		return p, nil
	}

	// Provided by a single package
	if res := r.oracle.FilterByProvides(key); len(res) == 1 {
		r.stats.bump(StatProvide)
		r.cache[key] = res[0]
		return res[0], nil
	} else if len(res) > 1 {
		// Provided by multiple packages with the same name
		if res = model.FilterDuplicates(res); len(res) == 1 {
			r.stats.bump(StatProvideDuplicated)
			r.cache[key] = res[0]
			return res[0], nil
		}
	}

	// Exact package name
	if res := r.oracle.FilterByName(key); len(res) > 0 {
		r.stats.bump(StatName)
		r.cache[key] = res[0]
		return res[0], nil
	}

	if model.IsFileToken(key) {
		if res := r.oracle.FilterByFile(key); len(res) == 1 {
			r.stats.bump(StatFile)
			r.cache[key] = res[0]
			return res[0], nil
		} else if len(res) > 1 {
			if res = model.FilterDuplicates(res); len(res) == 1 {
				r.stats.bump(StatFileDuplicated)
				r.cache[key] = res[0]
				return res[0], nil
			}
		}
	}

	return r.resolveTransaction(key, forPkg)
}

// resolveTransaction simulates installing the token and attributes it to a
// package from the resulting install set. The oracle's simulation goal is
// reset on every exit path.
func (r *Resolver) resolveTransaction(token string, forPkg *model.Package) (*model.Package, error) {
	defer r.oracle.ResetGoal()

	if err := r.oracle.TryInstall(token); err != nil {
		if isMarkingError(err) {
			r.stats.bump(StatMarkingError)
			return nil, nil
		}
		return nil, err
	}
	if forPkg != nil && forPkg.IsSource {
		// Installing the requesting source alongside the token lets its
		// build-requires contribute to the transaction set.
		if err := r.oracle.TryInstallPackage(forPkg); err != nil {
			if isMarkingError(err) {
				r.stats.bump(StatMarkingError)
				return nil, nil
			}
			return nil, err
		}
	}

	installSet, err := r.oracle.ResolveTransaction()
	if err != nil {
		var de *oracle.DepsolveError
		if errors.As(err, &de) {
			r.stats.bump(StatDepsolveError)
			logging.ResolverDebug("depsolve failed for %q: %v", token, err)
			return nil, nil
		}
		return nil, err
	}

	if res := r.oracle.FilterByProvidesWithin(token, installSet); len(res) == 1 {
		r.stats.bump(StatTransactionProvide)
		return res[0], nil
	} else if len(res) > 1 {
		r.stats.bump(StatTransactionProvideDuplicate)
		return res[0], nil
	}

	if res := r.oracle.FilterByFileWithin(token, installSet); len(res) == 1 {
		r.stats.bump(StatTransactionFile)
		return res[0], nil
	} else if len(res) > 1 {
		r.stats.bump(StatTransactionFileDuplicate)
		return res[0], nil
	}

	// Last resort: walk the install set directly.
	for _, p := range installSet {
		if p.HasFile(token) {
			r.stats.bump(StatTransactionFileLoop)
			return p, nil
		}
		for _, pr := range p.Provides {
			if model.StripToken(pr) == token {
				r.stats.bump(StatTransactionProvideLoop)
				return p, nil
			}
		}
	}

	return nil, &UnresolvableError{Token: token}
}

func isMarkingError(err error) bool {
	var me *oracle.MarkingError
	return errors.As(err, &me)
}
