package statement

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tbl := New(testRows, nil)
	tbl.Set("Revenue", day(2023, 12, 31), 383285000000)
	tbl.Set("NetIncome", day(2023, 12, 31), -12.5)
	tbl.Set("Revenue", day(2022, 12, 31), 1)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tbl))

	want := "Accounting Variable,2022-12-31,2023-12-31\n" +
		"Revenue,1,383285000000\n" +
		"NetIncome,0,-12.5\n" +
		"Cash,0,0\n"
	assert.Equal(t, want, buf.String())
}

func TestDecode_RoundTripPreservesRowOrder(t *testing.T) {
	tbl := New([]string{"Zeta", "Alpha", "Mid"}, nil)
	tbl.Set("Zeta", day(2023, 12, 31), 3)
	tbl.Set("Alpha", day(2022, 12, 31), 1.25)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tbl))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, got.Rows())
	assert.True(t, tbl.Equal(got))
}

func TestDecode_PandasStyle(t *testing.T) {
	in := "Accounting Variable,2023-09-30,2022-09-24\n" +
		"Revenue,383285000000.0,394328000000.0\n" +
		"Cash,,29965000000.0\n"

	got, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2022, 9, 24), day(2023, 9, 30)}, got.Periods())
	assert.Equal(t, 383285000000.0, got.Get("Revenue", day(2023, 9, 30)))
	assert.Equal(t, 0.0, got.Get("Cash", day(2023, 9, 30)))
	assert.Equal(t, 29965000000.0, got.Get("Cash", day(2022, 9, 24)))
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = Decode(strings.NewReader("  \n"))
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = Decode(strings.NewReader("Accounting Variable,2023-12-31\n"))
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestDecode_Corrupt(t *testing.T) {
	tests := map[string]string{
		"wrong first column": "Variable,2023-12-31\nRevenue,1\n",
		"bad date column":    "Accounting Variable,FY2023\nRevenue,1\n",
		"bad value":          "Accounting Variable,2023-12-31\nRevenue,abc\n",
		"ragged row":         "Accounting Variable,2023-12-31\nRevenue,1,2\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorrupt), err.Error())
		})
	}
}

func TestDecode_HeaderOnlyPeriods(t *testing.T) {
	got, err := Decode(strings.NewReader("Accounting Variable\nRevenue\nCash\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []string{"Revenue", "Cash"}, got.Rows())
}
