//go:build tools

package tools

// mockery v3 is used as an installed binary; .mockery.yaml lists the
// mocked interfaces. Run: mockery (from the module root).
