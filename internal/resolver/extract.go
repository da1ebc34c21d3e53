package resolver

import (
	"depgraph/internal/model"
)

// Provides resolves every provide token of p and returns the distinct
// packages behind them. Unresolved tokens are dropped. Only meaningful for
// source packages, whose provides enumerate the binaries they build.
func (r *Resolver) Provides(p *model.Package) ([]*model.Package, error) {
	seen := make(map[*model.Package]struct{}, len(p.Provides))
	res := make([]*model.Package, 0, len(p.Provides))
	for _, token := range p.Provides {
		provided, err := r.Resolve(token, nil)
		if err != nil {
			return nil, err
		}
		if provided == nil {
			continue
		}
		if _, ok := seen[provided]; ok {
			continue
		}
		seen[provided] = struct{}{}
		res = append(res, provided)
	}
	return res, nil
}

// Requires resolves every require token of p, deduplicated by package name.
// Unresolved tokens are dropped. A source package whose requirement resolves
// to another source package is a fatal modeling error.
func (r *Resolver) Requires(p *model.Package) ([]*model.Package, error) {
	res := make([]*model.Package, 0, len(p.Requires))
	for _, token := range p.Requires {
		provider, err := r.Resolve(token, p)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			continue
		}
		if p.IsSource && provider.IsSource {
			return nil, &OntologyError{
				Package:  p.String(),
				Provider: provider.String(),
				Token:    token,
			}
		}
		res = append(res, provider)
	}
	return model.FilterDuplicates(res), nil
}

// ContainsSource reports whether any package in the set is a source package.
// Used by the builder's optional structural check.
func ContainsSource(pkgs []*model.Package) bool {
	for _, p := range pkgs {
		if p.IsSource {
			return true
		}
	}
	return false
}
