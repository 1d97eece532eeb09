// Package controller provides output adapters for displaying gate state and
// patch results.
package controller

import (
	"context"
	"os"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// ScanFormat selects the rendering of a raw flag scan.
type ScanFormat string

const (
	// FormatText renders one flag per line.
	FormatText ScanFormat = "text"
	// FormatYAML renders a yaml document for feeding into tooling.
	FormatYAML ScanFormat = "yaml"
)

// UI defines the interface for presenting detection and patch results.
// Implementations can use different output methods.
type UI interface {
	DisplayStatuses(ctx context.Context, bundle m.BundleInfo, statuses []m.GateStatus) error
	DisplayGateList(ctx context.Context, entries []m.FeatureGate) error
	DisplayRawFlags(ctx context.Context, flags []string, format ScanFormat) error
	DisplayOutcome(ctx context.Context, operation string, outcome m.PatchOutcome) error
	DisplayDiff(ctx context.Context, path m.Path, before, after string) error
}

// IsTTY reports whether f is attached to a terminal, for deciding whether to
// colorize output.
func IsTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
