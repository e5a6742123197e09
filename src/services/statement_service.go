package services

import (
	"context"
	"fmt"

	"ledger/src/utils"

	"github.com/xuri/excelize/v2"
)

const (
	SheetBalances  = "Balances"
	SheetPositions = "Positions"
	SheetActivity  = "Activity"
)

type StatementServiceI interface {
	ExportStatement(ctx context.Context, accountID string) ([]byte, error)
}

// StatementService renders an account's balances, valued positions and
// recent activity as an xlsx workbook.
type StatementService struct {
	accounts    *AccountService
	investments *InvestmentService
	audit       *AuditService
}

func NewStatementService(accounts *AccountService, investments *InvestmentService, audit *AuditService) *StatementService {
	return &StatementService{accounts: accounts, investments: investments, audit: audit}
}

func (s *StatementService) ExportStatement(ctx context.Context, accountID string) ([]byte, error) {
	balances, err := s.accounts.GetBalances(ctx, accountID)
	if err != nil {
		return nil, err
	}
	positions, total, err := s.investments.ValuePositions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	events, err := s.audit.RecentForAccount(ctx, accountID, 0)
	if err != nil {
		return nil, err
	}
	rates := s.accounts.Rates()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetBalances); err != nil {
		return nil, err
	}
	rows := [][]interface{}{{"Currency", "Amount", "Rate " + utils.ReferenceCurrency, "Value " + utils.ReferenceCurrency}}
	for _, code := range sortedKeys(balances) {
		amount := balances[code]
		rows = append(rows, []interface{}{
			code,
			amount.InexactFloat64(),
			rates[code].InexactFloat64(),
			Quantize(amount.Mul(rates[code])).InexactFloat64(),
		})
	}
	if err := writeSheet(f, SheetBalances, rows); err != nil {
		return nil, err
	}

	rows = [][]interface{}{{"Asset", "Shares", "Price " + utils.ReferenceCurrency, "Value " + utils.ReferenceCurrency}}
	for _, p := range positions {
		rows = append(rows, []interface{}{p.Asset, p.Shares.InexactFloat64(), p.PriceEUR.InexactFloat64(), p.ValueEUR.InexactFloat64()})
	}
	rows = append(rows, []interface{}{"TOTAL", "", "", total.InexactFloat64()})
	if _, err := f.NewSheet(SheetPositions); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetPositions, rows); err != nil {
		return nil, err
	}

	rows = [][]interface{}{{"Timestamp", "Level", "Message"}}
	for _, e := range events {
		rows = append(rows, []interface{}{e.Timestamp.UTC().Format("2006-01-02 15:04:05"), e.Level, e.Message})
	}
	if _, err := f.NewSheet(SheetActivity); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetActivity, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write statement: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSheet fills sheet from rows, the first of which is the header.
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return styleSheet(f, sheet, len(rows[0]), len(rows))
}

func styleSheet(f *excelize.File, sheet string, lastCol, lastRow int) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(lastCol, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	if lastRow > 1 {
		dataStyle, err := f.NewStyle(&excelize.Style{Border: border})
		if err != nil {
			return err
		}
		lastCell, err := excelize.CoordinatesToCellName(lastCol, lastRow)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A2", lastCell, dataStyle); err != nil {
			return err
		}
	}

	first, _ := excelize.ColumnNumberToName(1)
	last, _ := excelize.ColumnNumberToName(lastCol)
	return f.SetColWidth(sheet, first, last, 18)
}
