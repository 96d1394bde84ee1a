// Package asset implements the Asset Registry.
//
// The registry is a fixed, compiled-in list of tracked assets. Its order is
// the fetch order of every refresh cycle and never changes at runtime.
package asset
