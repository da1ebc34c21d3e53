package resolver

import "fmt"

// UnresolvableError is fatal: the transaction fallback succeeded but not even
// the final install-set sweep could attribute the token to a package. This
// points at inconsistent oracle data, not at user input.
type UnresolvableError struct {
	Token string
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("resolver: no probe resolved token %q", e.Token)
}

// OntologyError is fatal: a source package runtime-requires another source
// package, which the data model forbids.
type OntologyError struct {
	Package  string
	Provider string
	Token    string
}

func (e *OntologyError) Error() string {
	return fmt.Sprintf("resolver: source %s cannot require another source %s via %q",
		e.Package, e.Provider, e.Token)
}
