// Package model defines the package records and capability tokens shared by
// the oracle, resolver and builder. A universe contains two kinds of
// artifacts: binary packages (installable, advertise provides and requires)
// and source packages (build inputs that produce binaries and carry
// build-requires).
package model

import (
	"fmt"
	"strings"
)

// Package is an immutable description of one artifact in the universe.
type Package struct {
	// Name uniquely identifies the package within its version stream.
	// Multiple records may share a name (different versions).
	Name    string
	Version string

	// IsSource marks a source package. SourceName is only meaningful on
	// binaries and names the source package that built them.
	IsSource   bool
	SourceName string

	// Repo is the repository label the oracle scopes its filters by.
	Repo string

	// Provides and Requires are ordered capability token lists. Files is the
	// set of absolute paths the package ships.
	Provides []string
	Requires []string
	Files    []string
}

// String renders name-version for log and error messages.
func (p *Package) String() string {
	if p.Version == "" {
		return p.Name
	}
	return fmt.Sprintf("%s-%s", p.Name, p.Version)
}

// HasFile reports whether the package ships the given absolute path.
func (p *Package) HasFile(path string) bool {
	for _, f := range p.Files {
		if f == path {
			return true
		}
	}
	return false
}

// StripToken removes a trailing version constraint from a capability token,
// splitting on the first occurrence of space, '<', '=' or '>' and keeping the
// left part. "foo >= 1.2" and "foo=1.2" both strip to "foo". File path tokens
// contain none of these characters and pass through unchanged.
func StripToken(token string) string {
	if i := strings.IndexAny(token, " <=>"); i >= 0 {
		return token[:i]
	}
	return token
}

// IsFileToken reports whether the token is an absolute file path claim.
func IsFileToken(token string) bool {
	return strings.HasPrefix(token, "/")
}

// FilterDuplicates keeps the first package seen per distinct name, preserving
// input order. The oracle may return several records with the same name
// (version streams); resolution only cares about one of them.
func FilterDuplicates(pkgs []*Package) []*Package {
	included := make(map[string]struct{}, len(pkgs))
	res := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		if _, ok := included[p.Name]; ok {
			continue
		}
		included[p.Name] = struct{}{}
		res = append(res, p)
	}
	return res
}
