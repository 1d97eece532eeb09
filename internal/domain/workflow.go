package domain

import (
	"context"
	"fmt"
	"log/slog"

	"gatewrench.dev/pkg/gatewrench/internal/controller"
	"gatewrench.dev/pkg/gatewrench/internal/domain/gates"
	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// StatusArgs parameterizes a status query.
type StatusArgs struct {
	Bundle m.Path // explicit artifact path; empty means locate
	Gate   string // optional single gate by name or codename
}

// EnableArgs parameterizes an enable operation.
type EnableArgs struct {
	Bundle   m.Path
	Gate     string
	All      bool
	DryRun   bool
	NoBackup bool
}

// DisableArgs parameterizes a disable operation.
type DisableArgs struct {
	Bundle   m.Path
	Gate     string
	NoBackup bool
}

// ScanArgs parameterizes a raw flag scan.
type ScanArgs struct {
	Bundle m.Path
	Format controller.ScanFormat
}

// Workflow wires resolution, detection and patching behind the CLI commands.
type Workflow interface {
	Status(ctx context.Context, args StatusArgs) error
	Enable(ctx context.Context, args EnableArgs) error
	Disable(ctx context.Context, args DisableArgs) error
	Scan(ctx context.Context, args ScanArgs) error
	List(ctx context.Context) error
}

// patcher is the mode-independent operation surface shared by TextPatcher
// and BytePatcher.
type patcher interface {
	Enable(nameOrCodename string, bundle m.BundleInfo, opts PatchOptions) m.PatchOutcome
	EnableAll(bundle m.BundleInfo, opts PatchOptions) m.PatchOutcome
	Disable(nameOrCodename string, bundle m.BundleInfo, opts PatchOptions) m.PatchOutcome
	Preview(nameOrCodename string, bundle m.BundleInfo) (string, *m.PatchError)
}

type workflow struct {
	resolver    *Resolver
	detector    *Detector
	textPatcher *TextPatcher
	bytePatcher *BytePatcher
	registry    *gates.Registry
	ui          controller.UI
}

// NewWorkflow creates a Workflow over the provided collaborators.
func NewWorkflow(
	resolver *Resolver,
	detector *Detector,
	textPatcher *TextPatcher,
	bytePatcher *BytePatcher,
	registry *gates.Registry,
	ui controller.UI,
) Workflow {
	return &workflow{
		resolver:    resolver,
		detector:    detector,
		textPatcher: textPatcher,
		bytePatcher: bytePatcher,
		registry:    registry,
		ui:          ui,
	}
}

func (w *workflow) Status(ctx context.Context, args StatusArgs) error {
	bundle, perr := w.resolver.Resolve(args.Bundle)
	if perr != nil {
		return perr
	}

	if args.Gate != "" {
		status, ok := w.detector.DetectOne(args.Gate, bundle)
		if !ok {
			return m.Patchf(m.ErrUnknownGate, "no gate named %q", args.Gate)
		}

		return w.ui.DisplayStatuses(ctx, bundle, []m.GateStatus{status})
	}

	return w.ui.DisplayStatuses(ctx, bundle, w.detector.DetectAll(bundle))
}

func (w *workflow) Enable(ctx context.Context, args EnableArgs) error {
	bundle, perr := w.resolver.Resolve(args.Bundle)
	if perr != nil {
		return perr
	}

	p := w.patcherFor(bundle)
	opts := PatchOptions{NoBackup: args.NoBackup}

	if args.DryRun {
		if args.All {
			return fmt.Errorf("--dry-run supports a single gate, not --all")
		}

		after, perr := p.Preview(args.Gate, bundle)
		if perr != nil {
			return perr
		}

		return w.ui.DisplayDiff(ctx, bundle.Path, bundle.Content, after)
	}

	var outcome m.PatchOutcome

	if args.All {
		slog.Info("enabling all patchable gates", "bundle", bundle.Path, "encoding", bundle.Encoding.String())

		outcome = p.EnableAll(bundle, opts)
	} else {
		slog.Info("enabling gate", "gate", args.Gate, "bundle", bundle.Path, "encoding", bundle.Encoding.String())

		outcome = p.Enable(args.Gate, bundle, opts)
	}

	return w.finish(ctx, "enable", outcome)
}

func (w *workflow) Disable(ctx context.Context, args DisableArgs) error {
	bundle, perr := w.resolver.Resolve(args.Bundle)
	if perr != nil {
		return perr
	}

	slog.Info("disabling gate", "gate", args.Gate, "bundle", bundle.Path)

	outcome := w.patcherFor(bundle).Disable(args.Gate, bundle, PatchOptions{NoBackup: args.NoBackup})

	return w.finish(ctx, "disable", outcome)
}

func (w *workflow) Scan(ctx context.Context, args ScanArgs) error {
	bundle, perr := w.resolver.Resolve(args.Bundle)
	if perr != nil {
		return perr
	}

	flags := w.detector.ScanRawFlags(bundle)

	slog.Debug("raw flag scan complete", "bundle", bundle.Path, "flags", len(flags))

	return w.ui.DisplayRawFlags(ctx, flags, args.Format)
}

func (w *workflow) List(ctx context.Context) error {
	return w.ui.DisplayGateList(ctx, w.registry.ListAll())
}

func (w *workflow) patcherFor(bundle m.BundleInfo) patcher {
	if bundle.IsBinaryTarget() {
		return w.bytePatcher
	}

	return w.textPatcher
}

// finish displays the outcome and converts a failed one into the command
// error.
func (w *workflow) finish(ctx context.Context, operation string, outcome m.PatchOutcome) error {
	if err := w.ui.DisplayOutcome(ctx, operation, outcome); err != nil {
		return err
	}

	if outcome.Err != nil {
		slog.Error("operation failed", "operation", operation, "kind", outcome.Err.Kind.String(), "err", outcome.Err.Err)

		return outcome.Err
	}

	return nil
}
