package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxclean/internal/shared/testutil"
	"vaxclean/pkg/contracts/domain"
)

// fakeStage appends a record, or fails when err is set
type fakeStage struct {
	BaseStage
	err   error
	calls *[]string
}

func newFakeStage(id string, calls *[]string, err error) *fakeStage {
	return &fakeStage{BaseStage: NewBaseStage(id, "Fake "+id), err: err, calls: calls}
}

func (f *fakeStage) Execute(ctx context.Context, state *State) error {
	*f.calls = append(*f.calls, f.ID())
	if f.err != nil {
		return f.err
	}
	state.Table.Records = append(state.Table.Records, &domain.VaccinationRecord{})
	return nil
}

func TestRegistry(t *testing.T) {
	var calls []string
	r := NewRegistry()

	require.NoError(t, r.Register(newFakeStage("load", &calls, nil)))
	require.NoError(t, r.Register(newFakeStage("derive", &calls, nil)))

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(newFakeStage("", &calls, nil)))
	assert.Error(t, r.Register(newFakeStage("load", &calls, nil)))

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []string{"load", "derive"}, r.ListIDs())

	assert.Equal(t, "Fake derive", r.List()[1].Name())

	assert.Panics(t, func() { r.MustRegister(newFakeStage("load", &calls, nil)) })
}

func TestRunner_RunsInOrder(t *testing.T) {
	var calls []string
	registry := NewRegistry().MustRegister(
		newFakeStage("a", &calls, nil),
		newFakeStage("b", &calls, nil),
		newFakeStage("c", &calls, nil),
	)
	logger, handler := testutil.NewTestLogger(t)

	state := NewState("in.csv")
	result, err := NewRunner(registry, nil, logger).Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.NotEmpty(t, result.TraceID)
	require.Len(t, result.Stages, 3)
	for i, ss := range result.Stages {
		assert.Equal(t, StageStatusCompleted, ss.GetStatus())
		assert.Equal(t, i, ss.RowsIn)
		assert.Equal(t, i+1, ss.RowsOut)
	}
	assert.Equal(t, 3, state.Table.Len())

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Pipeline completed")
	testutil.AssertNoErrors(t, handler)
}

func TestRunner_StopsOnFailure(t *testing.T) {
	var calls []string
	cause := errors.New("bad row")
	registry := NewRegistry().MustRegister(
		newFakeStage("a", &calls, nil),
		newFakeStage("b", &calls, cause),
		newFakeStage("c", &calls, nil),
	)
	logger, handler := testutil.NewTestLogger(t)

	result, err := NewRunner(registry, nil, logger).Run(context.Background(), NewState("in.csv"))
	require.Error(t, err)

	assert.Equal(t, []string{"a", "b"}, calls)
	assert.ErrorIs(t, err, cause)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "b", stageErr.StageID)

	require.Len(t, result.Stages, 2)
	assert.Equal(t, StageStatusFailed, result.Stages[1].GetStatus())
	testutil.AssertLogContains(t, handler, slog.LevelError, "Stage failed")
}

func TestRunner_Cancelled(t *testing.T) {
	var calls []string
	registry := NewRegistry().MustRegister(newFakeStage("a", &calls, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(registry, nil, nil).Run(ctx, NewState("in.csv"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

func TestBaseStage_ValidateRequiresTable(t *testing.T) {
	b := NewBaseStage("x", "X")
	assert.Error(t, b.Validate(nil))
	assert.Error(t, b.Validate(&State{}))
	assert.NoError(t, b.Validate(NewState("in.csv")))
}

func TestStageState_Transitions(t *testing.T) {
	ss := NewStageState("load", "Load")
	assert.Equal(t, StageStatusPending, ss.GetStatus())
	assert.Zero(t, ss.Duration())

	ss.Start(0)
	assert.Equal(t, StageStatusActive, ss.GetStatus())

	ss.Complete(12)
	assert.Equal(t, StageStatusCompleted, ss.GetStatus())
	assert.Equal(t, 12, ss.RowsOut)
	assert.NotNil(t, ss.EndTime)

	ss.Fail(errors.New("x"))
	assert.Equal(t, StageStatusFailed, ss.GetStatus())
}
