// Package types defines the path algebra, items, typed columns, the error
// taxonomy, and the Tree/ColumnStore/Backend contracts shared by the
// in-memory and SQLite backends of the Treesor item store.
//
// Callers address items by Path and never touch tree or column internals;
// see package treesor for the item model built on these contracts.
package types
