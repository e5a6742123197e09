package services_test

import (
	"bytes"
	"context"
	"testing"

	"ledger/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportStatement(t *testing.T) {
	ctx := context.Background()
	ledger, _ := setupLedger(t)
	id := createAccount(t, ledger, "alice")

	_, err := ledger.Investments.Invest(ctx, id, "WRRC", dec("0.5"), "KP")
	require.NoError(t, err)

	data, err := ledger.Statements.ExportStatement(ctx, id)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{services.SheetBalances, services.SheetPositions, services.SheetActivity}, f.GetSheetList())

	rows, err := f.GetRows(services.SheetBalances)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Currency", rows[0][0])
	assert.Equal(t, "KP", rows[1][0])

	rows, err = f.GetRows(services.SheetPositions)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "WRRC", rows[1][0])
	assert.Equal(t, "50", rows[1][3])
	assert.Equal(t, "TOTAL", rows[2][0])

	rows, err = f.GetRows(services.SheetActivity)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = ledger.Statements.ExportStatement(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}
