package conversation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/service"
	"github.com/carson-networks/finance-bot/internal/statement"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

// maxMessageRunes keeps replies under common chat transport limits.
const maxMessageRunes = 4000

const currency = "ريال"

var kindLabels = map[ledger.Kind]string{
	ledger.KindExpense: "مصروف",
	ledger.KindIncome:  "دخل",
}

var accountTypeLabels = map[ledger.AccountType]string{
	ledger.AccountTypeBank:       "بنك",
	ledger.AccountTypeCreditCard: "بطاقة ائتمان",
	ledger.AccountTypeCash:       "نقدي",
	ledger.AccountTypeDebt:       "دين",
	ledger.AccountTypePerson:     "أشخاص",
	ledger.AccountTypeOther:      "أخرى",
}

type renderer struct {
	printer *message.Printer
}

func newRenderer() renderer {
	return renderer{printer: message.NewPrinter(language.English)}
}

// money renders an amount with thousands separators, dropping a zero
// fraction.
func (r renderer) money(d decimal.Decimal) string {
	d = d.Round(2)
	if d.Equal(d.Truncate(0)) {
		return r.printer.Sprintf("%.0f", d.InexactFloat64())
	}
	return r.printer.Sprintf("%.2f", d.InexactFloat64())
}

func (r renderer) signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + r.money(d)
	}
	return r.money(d)
}

func (r renderer) menu() string {
	var b strings.Builder
	b.WriteString("👋 مرحباً! أنا بوت إدارة الحسابات الشخصية.\n\n")
	b.WriteString("📌 اختر من القائمة:\n")
	for _, row := range Keyboard {
		for _, button := range row {
			b.WriteString("• " + button + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func accountList(names []string) string {
	if len(names) == 0 {
		return "🏦 لا توجد حسابات بعد."
	}
	var b strings.Builder
	b.WriteString("🏦 الحسابات المتاحة:\n")
	for _, name := range names {
		b.WriteString("• " + name + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r renderer) overview(o service.Overview) string {
	var b strings.Builder
	b.WriteString("💼 حساباتك:\n\n")
	for _, a := range o.Accounts {
		fmt.Fprintf(&b, "%s: %s %s\n", a.Name, r.money(a.Balance), currency)
	}
	fmt.Fprintf(&b, "\n💰 الإجمالي: %s %s\n", r.money(o.Total), currency)
	fmt.Fprintf(&b, "📊 الموازنة: %s %s", r.money(o.Budget), currency)
	return b.String()
}

func (r renderer) recent(txs []ledger.Transaction) string {
	if len(txs) == 0 {
		return "📭 لا توجد معاملات مسجلة بعد."
	}
	var b strings.Builder
	b.WriteString("📋 آخر المعاملات:\n")
	for _, tx := range txs {
		arrow := "↙️"
		if tx.Kind == ledger.KindExpense {
			arrow = "↗️"
		}
		fmt.Fprintf(&b, "\n%s %s - %s: %s %s\n   (%s)\n",
			arrow, ledger.FormatDay(tx.Date), tx.Label, r.money(tx.Amount), currency, ledger.CanonicalName(tx.Account))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r renderer) posted(p *service.Posted) string {
	var b strings.Builder
	tx := p.Transaction
	if tx.Kind == ledger.KindExpense {
		fmt.Fprintf(&b, "✅ تم تسجيل مصروف %s %s للتصنيف %s\nمن: %s\n", r.money(tx.Amount), currency, tx.Label, tx.Account)
	} else {
		fmt.Fprintf(&b, "✅ تم تسجيل دخل %s %s من %s\nإلى: %s\n", r.money(tx.Amount), currency, tx.Label, tx.Account)
	}
	if tx.Description != "" {
		fmt.Fprintf(&b, "🏪 الوصف: %s\n", tx.Description)
	}
	fmt.Fprintf(&b, "📅 التاريخ: %s\n", ledger.FormatDay(tx.Date))
	b.WriteString("💵 الرصيد الجديد:\n")
	fmt.Fprintf(&b, "▪ %s: %s %s\n", p.Account.CanonicalName(), r.money(p.Account.Balance), currency)
	fmt.Fprintf(&b, "▪ موازنة: %s %s", r.money(p.Budget), currency)
	return b.String()
}

func (r renderer) transferred(out transfer.Outcome, budget decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ تم تحويل %s %s من %s إلى %s\n", r.money(out.Amount), currency, out.From.Name, out.To.Name)
	b.WriteString("💵 الرصيد الجديد:\n")
	fmt.Fprintf(&b, "▪ %s: %s %s\n", out.From.CanonicalName(), r.money(out.From.Balance), currency)
	fmt.Fprintf(&b, "▪ %s: %s %s\n", out.To.CanonicalName(), r.money(out.To.Balance), currency)
	fmt.Fprintf(&b, "▪ موازنة: %s %s", r.money(budget), currency)
	if out.Drifted {
		b.WriteString("\n\n⚠️ تغيرت الأرصدة منذ طلب التحويل، وتم التنفيذ بالمبلغ المعتمد.")
	}
	return b.String()
}

func (r renderer) pending(p transfer.Pending) string {
	return fmt.Sprintf("⚠️ تحذير: الرصيد غير كافٍ، ولكن سيصبح الرصيد سالباً!\n"+
		"💵 الرصيد الحالي: %s %s\n"+
		"💸 المبلغ المطلوب: %s %s\n"+
		"🔻 الرصيد الجديد: %s %s\n\n"+
		"✅ للمتابعة أرسل 'نعم' أو ❌ للإلغاء أرسل 'لا'",
		r.money(p.StagedFromBalance), currency,
		r.money(p.Amount), currency,
		r.money(p.Projected()), currency)
}

func (r renderer) insufficient(e *ledger.InsufficientFundsError) string {
	return fmt.Sprintf("❌ الرصيد غير كافٍ في %s!\n"+
		"💵 الرصيد الحالي: %s %s\n"+
		"💸 المبلغ المطلوب: %s %s\n\n"+
		"📋 ملاحظة: هذا الحساب لا يسمح بالرصيد السالب.",
		e.Account, r.money(e.Balance), currency, r.money(e.Amount), currency)
}

func (r renderer) newAccount(a ledger.Account) string {
	return fmt.Sprintf("✅ تم إضافة الحساب الجديد بنجاح!\n\n🏦 الحساب: %s\n📋 النوع: %s\n💵 الرصيد الأولي: %s %s",
		a.Name, accountTypeLabels[a.Type], r.money(a.Balance), currency)
}

func (r renderer) candidate(tx extractor.ExtractedTransaction, account string) string {
	var b strings.Builder
	b.WriteString("✅ تم التعرف على المعاملة:\n\n")
	fmt.Fprintf(&b, "📋 النوع: %s\n", kindLabels[tx.Kind])
	if amount, ok := tx.Amount.Get(); ok {
		fmt.Fprintf(&b, "💰 المبلغ: %s %s\n", r.printer.Sprintf("%.2f", amount.InexactFloat64()), currency)
	}
	if tx.Counterpart != extractor.Unspecified {
		fmt.Fprintf(&b, "🏪 الجهة: %s\n", tx.Counterpart)
	}
	fmt.Fprintf(&b, "🏷️ التصنيف: %s\n", tx.Category)
	if account == "" {
		account = "غير محدد"
	}
	fmt.Fprintf(&b, "🏦 الحساب: %s\n", account)
	fmt.Fprintf(&b, "📅 التاريخ: %s", ledger.FormatDay(tx.Date))
	return b.String()
}

func (r renderer) statement(st *statement.Statement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 كشف حساب: %s\n", st.Account.CanonicalName())

	from, hasFrom := st.Window.From.Get()
	to, hasTo := st.Window.To.Get()
	switch {
	case hasFrom && hasTo:
		fmt.Fprintf(&b, "📅 الفترة: %s إلى %s\n", ledger.FormatDay(from), ledger.FormatDay(to))
	case hasFrom:
		fmt.Fprintf(&b, "📅 من: %s\n", ledger.FormatDay(from))
	case hasTo:
		fmt.Fprintf(&b, "📅 حتى: %s\n", ledger.FormatDay(to))
	default:
		b.WriteString("📅 الفترة: كامل\n")
	}

	fmt.Fprintf(&b, "💰 الرصيد الافتتاحي: %s %s\n", r.money(st.Start), currency)
	if rolled, ok := st.RolledForwardDate.Get(); ok {
		fmt.Fprintf(&b, "   (مرحّل حتى %s)\n", ledger.FormatDay(rolled))
	}
	b.WriteString("──────────\n")

	if len(st.Lines) == 0 {
		b.WriteString("📭 لا توجد حركات في هذه الفترة.\n")
	}
	for _, l := range st.Lines {
		fmt.Fprintf(&b, "%s | %s | %s | %s\n", ledger.FormatDay(l.Date), l.Description, r.signed(l.Amount), r.money(l.Balance))
	}

	b.WriteString("──────────\n")
	fmt.Fprintf(&b, "📈 الدخل: %s %s\n", r.money(st.Totals.Income), currency)
	fmt.Fprintf(&b, "📉 المصروفات: %s %s\n", r.money(st.Totals.Expenses), currency)
	fmt.Fprintf(&b, "🔄 صافي التحويلات: %s %s\n", r.signed(st.Totals.NetTransfers()), currency)
	fmt.Fprintf(&b, "💵 الرصيد الختامي: %s %s", r.money(st.Closing), currency)
	return b.String()
}

func (r renderer) inconsistency(e *statement.InconsistencyError) string {
	return fmt.Sprintf("⚠️ تحذير: الرصيد المسجل لحساب %s (%s) لا يطابق إعادة احتساب الحركات (%s). راجع ملف البيانات.",
		e.Account, r.money(e.Stored), r.money(e.Replayed))
}

// split breaks text into chunks of at most limit runes, on line boundaries
// where possible.
func split(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	currentRunes := 0
	flush := func() {
		if currentRunes > 0 {
			parts = append(parts, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			currentRunes = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if currentRunes+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(line)
			parts = append(parts, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		current.WriteString(line)
		currentRunes += n
	}
	flush()
	return parts
}

// FormatStatement renders a statement the way the chat shows it.
func FormatStatement(st *statement.Statement) string {
	return newRenderer().statement(st)
}
