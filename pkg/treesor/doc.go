// Package treesor implements the item model: a path-addressable tree of
// items, each identified by a stable id, with a sparse typed property layer
// on top. A Model orchestrates the tree engine and column store of one
// backend, chosen by the caller at construction.
//
// A Model is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves.
package treesor
