// Package workbook stores the ledger in an .xlsx spreadsheet with one sheet
// per table.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/storage"
)

const (
	SheetAccounts     = "accounts"
	SheetTransactions = "transactions"
	SheetTransfers    = "transfers"
)

// ErrUnknownLayout is returned for an existing file that holds none of the
// ledger sheets. Seeding over it would destroy whatever it contains.
var ErrUnknownLayout = errors.New("workbook has no ledger sheets")

// Workbook is a storage.Backend over a single spreadsheet file.
type Workbook struct {
	path string
	mu   sync.Mutex

	// layout is the naming found by the last Load; Replace keeps it.
	layout *layout
}

var _ storage.Backend = (*Workbook)(nil)

func New(path string) *Workbook {
	return &Workbook{path: path, layout: englishLayout}
}

// Load reads all three sheets. A missing file is an empty ledger. Sheets and
// columns are found by their English or Arabic names.
func (w *Workbook) Load(_ context.Context) (*ledger.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return ledger.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", w.path, err)
	}
	defer func() { _ = f.Close() }()

	l := detectLayout(f)
	if l == nil {
		return nil, fmt.Errorf("%s: %w (want %s, %s, %s)", w.path, ErrUnknownLayout, SheetAccounts, SheetTransactions, SheetTransfers)
	}

	snapshot := ledger.NewSnapshot()

	rows, err := sheetRows(f, l.accounts)
	if err != nil {
		return nil, err
	}
	for i, row := range rows.data {
		a, err := parseAccount(rows.cols, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", l.accounts.name, i+2, err)
		}
		snapshot.Accounts = append(snapshot.Accounts, a)
	}

	rows, err = sheetRows(f, l.transactions)
	if err != nil {
		return nil, err
	}
	for i, row := range rows.data {
		t, err := parseTransaction(f, rows.cols, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", l.transactions.name, i+2, err)
		}
		snapshot.AppendTransaction(t)
	}

	rows, err = sheetRows(f, l.transfers)
	if err != nil {
		return nil, err
	}
	for i, row := range rows.data {
		t, err := parseTransfer(f, rows.cols, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", l.transfers.name, i+2, err)
		}
		snapshot.AppendTransfer(t)
	}

	w.layout = l
	return snapshot, nil
}

// Replace writes a complete new workbook next to the target and renames it
// into place.
func (w *Workbook) Replace(_ context.Context, snapshot *ledger.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	l := w.layout
	accounts := make([][]interface{}, len(snapshot.Accounts))
	for i, a := range snapshot.Accounts {
		accounts[i] = []interface{}{a.Name, l.typeLabel(a.Type), a.Balance.InexactFloat64()}
	}
	transactions := make([][]interface{}, len(snapshot.Transactions))
	for i, t := range snapshot.Transactions {
		transactions[i] = []interface{}{ledger.FormatDay(t.Date), l.kindLabel(t.Kind), t.Amount.InexactFloat64(), t.Account, t.Label, t.Description}
	}
	transfers := make([][]interface{}, len(snapshot.Transfers))
	for i, t := range snapshot.Transfers {
		transfers[i] = []interface{}{ledger.FormatDay(t.Date), t.From, t.To, t.Amount.InexactFloat64()}
	}

	if err := writeSheet(f, l.accounts, accounts); err != nil {
		return err
	}
	if err := writeSheet(f, l.transactions, transactions); err != nil {
		return err
	}
	if err := writeSheet(f, l.transfers, transfers); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp workbook: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := f.SaveAs(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace workbook: %w", err)
	}
	return nil
}

func (w *Workbook) Close() error {
	return nil
}

func writeSheet(f *excelize.File, t table, rows [][]interface{}) error {
	sheet := t.name
	header := t.header()
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

type sheetData struct {
	cols map[string]int
	data [][]string
}

// sheetRows returns the data rows of a sheet without its header, with the
// header mapped to column keys. A missing sheet has no rows.
func sheetRows(f *excelize.File, t table) (sheetData, error) {
	idx, err := f.GetSheetIndex(t.name)
	if err != nil {
		return sheetData{}, fmt.Errorf("failed to look up sheet %s: %w", t.name, err)
	}
	if idx < 0 {
		return sheetData{}, nil
	}
	rows, err := f.GetRows(t.name, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheetData{}, fmt.Errorf("failed to read sheet %s: %w", t.name, err)
	}
	if len(rows) == 0 {
		return sheetData{}, nil
	}
	out := sheetData{cols: t.columns(rows[0])}
	for _, row := range rows[1:] {
		if !blank(row) {
			out.data = append(out.data, row)
		}
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

func cell(cols map[string]int, row []string, key string) string {
	i, ok := cols[key]
	if ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseAccount(cols map[string]int, row []string) (ledger.Account, error) {
	balance, err := parseMoney(cell(cols, row, colBalance))
	if err != nil {
		return ledger.Account{}, err
	}
	t, _ := ledger.ParseAccountType(cell(cols, row, colType))
	return ledger.Account{Name: cell(cols, row, colName), Type: t, Balance: balance}, nil
}

func parseTransaction(f *excelize.File, cols map[string]int, row []string) (ledger.Transaction, error) {
	date, err := parseDate(f, cell(cols, row, colDate))
	if err != nil {
		return ledger.Transaction{}, err
	}
	kind, ok := ledger.ParseKind(cell(cols, row, colKind))
	if !ok {
		return ledger.Transaction{}, fmt.Errorf("unknown kind %q", cell(cols, row, colKind))
	}
	amount, err := parseMoney(cell(cols, row, colAmount))
	if err != nil {
		return ledger.Transaction{}, err
	}
	return ledger.Transaction{
		Date:        date,
		Kind:        kind,
		Amount:      amount,
		Account:     cell(cols, row, colAccount),
		Label:       cell(cols, row, colLabel),
		Description: cell(cols, row, colDescription),
	}, nil
}

func parseTransfer(f *excelize.File, cols map[string]int, row []string) (ledger.Transfer, error) {
	date, err := parseDate(f, cell(cols, row, colDate))
	if err != nil {
		return ledger.Transfer{}, err
	}
	amount, err := parseMoney(cell(cols, row, colAmount))
	if err != nil {
		return ledger.Transfer{}, err
	}
	return ledger.Transfer{Date: date, From: cell(cols, row, colFrom), To: cell(cols, row, colTo), Amount: amount}, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.Round(2), nil
}

// parseDate accepts stored text dates and date serials left behind when the
// sheet was edited by hand.
func parseDate(f *excelize.File, s string) (time.Time, error) {
	if d, err := ledger.ParseDay(s); err == nil {
		return d, nil
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	props, err := f.GetWorkbookProps()
	if err != nil {
		return time.Time{}, err
	}
	date1904 := props.Date1904 != nil && *props.Date1904
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date serial %q: %w", s, err)
	}
	return ledger.Day(t), nil
}
