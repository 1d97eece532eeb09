package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatewrench.dev/pkg/gatewrench/internal/adapter"
	"gatewrench.dev/pkg/gatewrench/internal/controller"
	"gatewrench.dev/pkg/gatewrench/internal/domain/gates"
	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// recordingUI captures display calls so workflow routing can be asserted
// without a terminal.
type recordingUI struct {
	statuses []m.GateStatus
	entries  []m.FeatureGate
	flags    []string
	outcomes []m.PatchOutcome
	diffs    int
}

func (u *recordingUI) DisplayStatuses(_ context.Context, _ m.BundleInfo, statuses []m.GateStatus) error {
	u.statuses = statuses
	return nil
}

func (u *recordingUI) DisplayGateList(_ context.Context, entries []m.FeatureGate) error {
	u.entries = entries
	return nil
}

func (u *recordingUI) DisplayRawFlags(_ context.Context, flags []string, _ controller.ScanFormat) error {
	u.flags = flags
	return nil
}

func (u *recordingUI) DisplayOutcome(_ context.Context, _ string, outcome m.PatchOutcome) error {
	u.outcomes = append(u.outcomes, outcome)
	return nil
}

func (u *recordingUI) DisplayDiff(_ context.Context, _ m.Path, _, _ string) error {
	u.diffs++
	return nil
}

func newTestWorkflow(ui controller.UI) Workflow {
	fs := adapter.NewLocalBundleFSAdapter()
	backups := adapter.NewBackupManager(fs)
	registry := gates.NewRegistry()

	return NewWorkflow(
		NewResolver(fs, stubLocator{err: errors.New("no install")}),
		NewDetector(registry),
		NewTextPatcher(fs, backups, registry),
		NewBytePatcher(fs, backups, registry),
		registry,
		ui,
	)
}

func TestWorkflowStatus(t *testing.T) {
	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	path := writeFixture(t, "bundle.js", workoutFixture)

	require.NoError(t, wf.Status(context.Background(), StatusArgs{Bundle: path}))
	assert.Len(t, ui.statuses, len(gates.NewRegistry().ListAll()))

	require.NoError(t, wf.Status(context.Background(), StatusArgs{Bundle: path, Gate: "workout-v2"}))
	require.Len(t, ui.statuses, 1)
	assert.Equal(t, "workout-v2", ui.statuses[0].Codename)

	err := wf.Status(context.Background(), StatusArgs{Bundle: path, Gate: "bogus"})
	require.Error(t, err)
	assert.Equal(t, m.ErrUnknownGate, m.KindOf(err))
}

func TestWorkflowEnableRoutesByEncoding(t *testing.T) {
	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	// Text bundle: the marker may grow the file.
	textPath := writeFixture(t, "bundle.js", workoutFixture)
	require.NoError(t, wf.Enable(context.Background(), EnableArgs{Bundle: textPath, Gate: "workout-v2"}))
	require.Len(t, ui.outcomes, 1)
	assert.True(t, ui.outcomes[0].Success)

	// Binary target: the file length must not change.
	binPath := writeBinaryFixture(t, `function Gt(){return g9("tengu_workout2",!1)}`)
	before, perr := newTestResolver(stubLocator{}).Resolve(binPath)
	require.Nil(t, perr)

	require.NoError(t, wf.Enable(context.Background(), EnableArgs{Bundle: binPath, Gate: "workout-v2"}))

	after, perr := newTestResolver(stubLocator{}).Resolve(binPath)
	require.Nil(t, perr)
	assert.Len(t, after.Raw, len(before.Raw))
}

func TestWorkflowEnableDryRun(t *testing.T) {
	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	path := writeFixture(t, "bundle.js", workoutFixture)

	require.NoError(t, wf.Enable(context.Background(), EnableArgs{Bundle: path, Gate: "workout-v2", DryRun: true}))

	assert.Equal(t, 1, ui.diffs)
	assert.Empty(t, ui.outcomes)

	// Nothing was written.
	assert.Equal(t, workoutFixture, readFixture(t, path))
	assert.Empty(t, listFixtureBackups(t, path))

	err := wf.Enable(context.Background(), EnableArgs{Bundle: path, All: true, DryRun: true})
	assert.Error(t, err)
}

func TestWorkflowEnableFailureSurfacesError(t *testing.T) {
	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	path := writeFixture(t, "bundle.js", `var a=1;`)

	err := wf.Enable(context.Background(), EnableArgs{Bundle: path, Gate: "workout-v2"})
	require.Error(t, err)
	assert.Equal(t, m.ErrSignatureNotFound, m.KindOf(err))

	// The failed outcome is still displayed before the error returns.
	require.Len(t, ui.outcomes, 1)
	assert.False(t, ui.outcomes[0].Success)
}

func TestWorkflowDisable(t *testing.T) {
	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	path := writeFixture(t, "bundle.js", workoutFixture)

	require.NoError(t, wf.Enable(context.Background(), EnableArgs{Bundle: path, Gate: "workout-v2"}))
	require.NoError(t, wf.Disable(context.Background(), DisableArgs{Bundle: path, Gate: "workout-v2"}))

	assert.Equal(t, workoutFixture, readFixture(t, path))
}

func TestWorkflowScanAndList(t *testing.T) {
	ui := &recordingUI{}
	wf := newTestWorkflow(ui)

	path := writeFixture(t, "bundle.js", `g9("tengu_workout2",!1);zz("tengu_extra",!0)`)

	require.NoError(t, wf.Scan(context.Background(), ScanArgs{Bundle: path, Format: controller.FormatText}))
	assert.Equal(t, []string{"tengu_extra", "tengu_workout2"}, ui.flags)

	require.NoError(t, wf.List(context.Background()))
	assert.Len(t, ui.entries, len(gates.NewRegistry().ListAll()))
}

func TestWorkflowMissingArtifact(t *testing.T) {
	wf := newTestWorkflow(&recordingUI{})

	err := wf.Status(context.Background(), StatusArgs{Bundle: "/nonexistent/bundle.js"})
	require.Error(t, err)
	assert.Equal(t, m.ErrArtifactNotFound, m.KindOf(err))
}
