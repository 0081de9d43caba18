// Package types contains the core data model and interfaces shared across the
// rebalance library.
//
// It is imported by every other package (including internal ones) and must not
// depend on any other package in this module. The root rebalance package
// re-exports the commonly used definitions via type aliases, so most users
// never import types directly.
package types
