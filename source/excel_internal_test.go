package source

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcel_NextSheetKeepsSheetWhenOpenFails(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name"}))
	_, err := f.NewSheet("Totals")
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	x, err := NewExcel(&buf)
	require.NoError(t, err)
	defer x.Close()

	// The sheet list is read once at open; dropping the sheet afterwards makes
	// switching to it fail.
	require.NoError(t, x.file.DeleteSheet("Totals"))

	ok, err := x.NextSheet()
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Sheet1", x.SheetName())
	assert.Equal(t, 0, x.sheet)

	ok, err = x.NextRow()
	require.NoError(t, err)
	assert.False(t, ok)
}
