package conversation

import "strings"

const (
	ButtonAddExpense     = "➕ إضافة مصروف"
	ButtonAddIncome      = "💸 إضافة دخل"
	ButtonTransfer       = "🔄 تحويل بين الحسابات"
	ButtonAccounts       = "📊 عرض الحسابات"
	ButtonRecent         = "📈 عرض المصروفات"
	ButtonNewAccount     = "🏦 إضافة حساب جديد"
	ButtonStatement      = "📋 كشف حساب"
	ButtonDatedStatement = "📅 كشف بالتاريخ"
	ButtonBankMessage    = "🏦 معالجة رسالة بنك"

	CommandStart  = "/start"
	CommandCancel = "/cancel"
	CommandReload = "/reload"
)

type menuAction int

const (
	actionNone menuAction = iota
	actionAddExpense
	actionAddIncome
	actionTransfer
	actionAccounts
	actionRecent
	actionNewAccount
	actionStatement
	actionDatedStatement
	actionBankMessage
)

// Keyboard is the menu layout transports render as buttons.
var Keyboard = [][]string{
	{ButtonAddExpense, ButtonAddIncome},
	{ButtonTransfer, ButtonAccounts},
	{ButtonRecent, ButtonNewAccount},
	{ButtonStatement, ButtonDatedStatement},
	{ButtonBankMessage},
}

var menuActions = map[string]menuAction{
	ButtonAddExpense:     actionAddExpense,
	ButtonAddIncome:      actionAddIncome,
	ButtonTransfer:       actionTransfer,
	ButtonAccounts:       actionAccounts,
	ButtonRecent:         actionRecent,
	ButtonNewAccount:     actionNewAccount,
	ButtonStatement:      actionStatement,
	ButtonDatedStatement: actionDatedStatement,
	ButtonBankMessage:    actionBankMessage,

	"expense":         actionAddExpense,
	"income":          actionAddIncome,
	"transfer":        actionTransfer,
	"accounts":        actionAccounts,
	"recent":          actionRecent,
	"new account":     actionNewAccount,
	"statement":       actionStatement,
	"dated statement": actionDatedStatement,
	"bank message":    actionBankMessage,
}

func lookupMenu(text string) menuAction {
	return menuActions[strings.ToLower(strings.TrimSpace(text))]
}
