package workbook

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

// Column keys shared by both layouts.
const (
	colName        = "name"
	colType        = "type"
	colBalance     = "balance"
	colDate        = "date"
	colKind        = "kind"
	colAmount      = "amount"
	colAccount     = "account"
	colLabel       = "label"
	colDescription = "description"
	colFrom        = "from"
	colTo          = "to"
)

type column struct {
	key    string
	arabic string
}

type table struct {
	name   string
	arabic bool
	cols   []column
}

// header is the first row written for the table.
func (t table) header() []interface{} {
	out := make([]interface{}, len(t.cols))
	for i, c := range t.cols {
		if t.arabic {
			out[i] = c.arabic
		} else {
			out[i] = c.key
		}
	}
	return out
}

// columns maps a header row to column positions. Either language is
// accepted. A header that names none of the columns is read positionally.
func (t table) columns(header []string) map[string]int {
	out := make(map[string]int, len(t.cols))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, c := range t.cols {
			if h == c.key || h == c.arabic {
				if _, seen := out[c.key]; !seen {
					out[c.key] = i
				}
			}
		}
	}
	if len(out) == 0 {
		for i, c := range t.cols {
			out[c.key] = i
		}
	}
	return out
}

type layout struct {
	accounts     table
	transactions table
	transfers    table
}

var (
	accountCols = []column{
		{colName, "اسم الحساب"},
		{colType, "النوع"},
		{colBalance, "الرصيد"},
	}
	transactionCols = []column{
		{colDate, "التاريخ"},
		{colKind, "النوع"},
		{colAmount, "المبلغ"},
		{colAccount, "الحساب"},
		{colLabel, "التصنيف"},
		{colDescription, "الوصف"},
	}
	transferCols = []column{
		{colDate, "التاريخ"},
		{colFrom, "من حساب"},
		{colTo, "إلى حساب"},
		{colAmount, "المبلغ"},
	}
)

var englishLayout = &layout{
	accounts:     table{name: SheetAccounts, cols: accountCols},
	transactions: table{name: SheetTransactions, cols: transactionCols},
	transfers:    table{name: SheetTransfers, cols: transferCols},
}

// arabicLayout is the naming used by spreadsheets kept by hand or by the
// earlier Telegram bot.
var arabicLayout = &layout{
	accounts:     table{name: "الحسابات", arabic: true, cols: accountCols},
	transactions: table{name: "المعاملات", arabic: true, cols: transactionCols},
	transfers:    table{name: "التحويلات", arabic: true, cols: transferCols},
}

var arabicTypes = map[ledger.AccountType]string{
	ledger.AccountTypeBank:       "بنك",
	ledger.AccountTypeCreditCard: "بطاقة ائتمان",
	ledger.AccountTypeCash:       "نقدي",
	ledger.AccountTypeDebt:       "دين",
	ledger.AccountTypePerson:     "أشخاص",
	ledger.AccountTypeOther:      "أخرى",
}

var arabicKinds = map[ledger.Kind]string{
	ledger.KindExpense: "مصروف",
	ledger.KindIncome:  "دخل",
}

func (l *layout) typeLabel(t ledger.AccountType) string {
	if l.accounts.arabic {
		if label, ok := arabicTypes[t]; ok {
			return label
		}
	}
	return string(t)
}

func (l *layout) kindLabel(k ledger.Kind) string {
	if l.transactions.arabic {
		if label, ok := arabicKinds[k]; ok {
			return label
		}
	}
	return string(k)
}

func (l *layout) present(f *excelize.File) int {
	n := 0
	for _, t := range []table{l.accounts, l.transactions, l.transfers} {
		if idx, err := f.GetSheetIndex(t.name); err == nil && idx >= 0 {
			n++
		}
	}
	return n
}

// detectLayout picks the layout with the most ledger sheets in f, or nil
// when f holds none.
func detectLayout(f *excelize.File) *layout {
	english, arabic := englishLayout.present(f), arabicLayout.present(f)
	switch {
	case english == 0 && arabic == 0:
		return nil
	case arabic > english:
		return arabicLayout
	}
	return englishLayout
}
