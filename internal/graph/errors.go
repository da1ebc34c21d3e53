package graph

import "errors"

var (
	// ErrNodeNotFound indicates a neighborhood root that is not in the graph.
	ErrNodeNotFound = errors.New("graph: node not found")
	// ErrNegativeRadius indicates a neighborhood radius below zero.
	ErrNegativeRadius = errors.New("graph: radius must be non-negative")
	// ErrUnknownColor indicates an edge color label outside blue/green/red.
	ErrUnknownColor = errors.New("graph: unknown edge color")
)
