package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

var (
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd   *cobra.Command
	color bool
}

// NewSimpleUI creates a new SimpleUI. Colors are applied only when color is
// true (stdout is a terminal).
func NewSimpleUI(cmd *cobra.Command, color bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, color: color}
}

// DisplayStatuses renders the per-gate detection results as a table.
func (s *SimpleUI) DisplayStatuses(ctx context.Context, bundle m.BundleInfo, statuses []m.GateStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cmd.Printf("%s (%s target)\n\n", bundle.Path, bundle.Encoding)

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Gate", "Codename", "Category", "Detected", "Enabled", "Env Override"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, status := range statuses {
		table.Append([]string{
			status.Name,
			status.Codename,
			string(status.Category),
			yesNo(status.Detected),
			s.enabledCell(status.Enabled),
			status.EnvOverride,
		})
	}

	table.Render()
	s.cmd.Print(buf.String())

	return nil
}

// DisplayGateList renders the registry catalog.
func (s *SimpleUI) DisplayGateList(ctx context.Context, entries []m.FeatureGate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Gate", "Codename", "Category", "Text Patch", "Byte Patch"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, gate := range entries {
		table.Append([]string{
			gate.Name,
			gate.Codename,
			string(gate.Category),
			yesNo(gate.TextPatchable()),
			yesNo(gate.BytePatchable()),
		})
	}

	table.Render()
	s.cmd.Print(buf.String())
	s.cmd.Printf("\n%d gates registered\n", len(entries))

	return nil
}

// DisplayRawFlags renders the naming-convention scan results.
func (s *SimpleUI) DisplayRawFlags(ctx context.Context, flags []string, format ScanFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if format == FormatYAML {
		doc := struct {
			Flags []string `yaml:"flags"`
		}{Flags: flags}

		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("rendering scan results: %w", err)
		}

		s.cmd.Print(string(out))

		return nil
	}

	for _, flag := range flags {
		s.cmd.Println(flag)
	}

	s.cmd.Printf("\n%d flags found\n", len(flags))

	return nil
}

// DisplayOutcome reports the result of a mutating operation.
func (s *SimpleUI) DisplayOutcome(ctx context.Context, operation string, outcome m.PatchOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if outcome.Err != nil {
		s.cmd.Printf("%s failed: %v\n", operation, outcome.Err)
		return nil
	}

	if len(outcome.Changed) == 0 {
		s.cmd.Printf("%s: nothing to do\n", operation)
		return nil
	}

	for _, status := range outcome.Changed {
		s.cmd.Printf("%s: %s (%s) -> enabled=%s\n",
			operation, status.Codename, status.Name, s.enabledCell(status.Enabled))

		if status.EnvOverride != "" && status.Enabled {
			s.cmd.Printf("  note: %s=1 achieves the same without patching\n", status.EnvOverride)
		}
	}

	if outcome.BackupPath != "" {
		s.cmd.Printf("backup: %s\n", outcome.BackupPath)
	}

	return nil
}

// DisplayDiff renders a unified diff between the current and the proposed
// content of the artifact.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, before, after string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: string(path),
		ToFile:   string(path) + " (patched)",
		Context:  2,
	})
	if err != nil {
		return fmt.Errorf("computing diff: %w", err)
	}

	if diff == "" {
		s.cmd.Println("no changes")
		return nil
	}

	s.cmd.Print(diff)

	return nil
}

func (s *SimpleUI) enabledCell(enabled bool) string {
	text := yesNo(enabled)
	if !s.color {
		return text
	}

	if enabled {
		return enabledStyle.Render(text)
	}

	return disabledStyle.Render(text)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}
