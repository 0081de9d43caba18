// Package testing provides test helpers for the rebalance library.
//
// It is imported by package tests only and is not part of the library's
// runtime dependency surface.
package testing
