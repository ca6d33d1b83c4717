// Package testutil provides testing utilities for transit.
//
// This package contains mock errors and filesystem fixtures used across
// test files. It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockRuleFailed indicates a mock migration rule failed (used in tests).
	ErrMockRuleFailed = errors.New("rule failed")

	// ErrMockWriteFailed indicates a mock configuration write failed (used in tests).
	ErrMockWriteFailed = errors.New("write failed")

	// ErrMockListingRefused indicates a mock store refused a child listing (used in tests).
	ErrMockListingRefused = errors.New("listing refused")
)
