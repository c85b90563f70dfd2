package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/factsync/internal/model"
)

func okResult(ticker string, status model.Status) model.Result {
	return model.Result{Ticker: ticker, Status: status}
}

func TestBatch_RunCollectsResults(t *testing.T) {
	proc := &mockProcessor{}
	proc.On("ProcessCompany", mock.Anything, "AAPL", false).Return(okResult("AAPL", model.StatusFirstTime), nil).Once()
	proc.On("ProcessCompany", mock.Anything, "MSFT", false).Return(okResult("MSFT", model.StatusSkipped), nil).Once()
	proc.On("ProcessCompany", mock.Anything, "BRK-B", false).
		Return(model.Result{Ticker: "BRK-B", Status: model.ErrorStatus(errors.New("x"))}, errors.New("x")).Once()

	sum, err := NewBatch(proc, 3).Run(context.Background(), []string{"msft", "aapl", "AAPL", "", "brk.b"}, false)
	require.NoError(t, err)
	proc.AssertExpectations(t)

	require.Len(t, sum.Results, 3)
	assert.Equal(t, "AAPL", sum.Results[0].Ticker)
	assert.Equal(t, "BRK-B", sum.Results[1].Ticker)
	assert.Equal(t, 1, sum.Counts[model.StatusFirstTime])
	assert.Equal(t, 1, sum.Counts[model.StatusSkipped])
	assert.Equal(t, 1, sum.Failed())
}

func TestBatch_ForcePassedThrough(t *testing.T) {
	proc := &mockProcessor{}
	proc.On("ProcessCompany", mock.Anything, "AAPL", true).Return(okResult("AAPL", model.StatusUpdated), nil).Once()

	_, err := NewBatch(proc, 0).Run(context.Background(), []string{"AAPL"}, true)
	require.NoError(t, err)
	proc.AssertExpectations(t)
}

func TestBatch_UnsupportedSchemaAborts(t *testing.T) {
	proc := &mockProcessor{}
	fatal := eris.Wrap(model.ErrUnsupportedSchema, "xbrl: http://fasb.org/srt")
	proc.On("ProcessCompany", mock.Anything, "AAA", false).
		Return(model.Result{Ticker: "AAA", Status: model.ErrorStatus(fatal)}, fatal).Once()

	sum, err := NewBatch(proc, 1).Run(context.Background(), []string{"AAA", "BBB", "CCC"}, false)
	require.Error(t, err)
	assert.True(t, model.IsBatchFatal(err))
	proc.AssertExpectations(t)
	proc.AssertNotCalled(t, "ProcessCompany", mock.Anything, "BBB", false)
	proc.AssertNotCalled(t, "ProcessCompany", mock.Anything, "CCC", false)

	require.Len(t, sum.Results, 1)
	assert.Equal(t, model.Status("error:unsupported_schema"), sum.Results[0].Status)
}

func TestBatch_CanceledContext(t *testing.T) {
	proc := &mockProcessor{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := NewBatch(proc, 2).Run(ctx, []string{"AAPL", "MSFT"}, false)
	assert.NoError(t, err)
	assert.Empty(t, sum.Results)
	proc.AssertNotCalled(t, "ProcessCompany", mock.Anything, mock.Anything, mock.Anything)
}
