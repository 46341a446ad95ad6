package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aarondl/opt/omit"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/service"
	"github.com/carson-networks/finance-bot/internal/statement"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

const (
	msgAccountNotFound  = "❌ الحساب غير موجود!"
	msgAccountsNotFound = "❌ أحد الحسابات غير موجود!"
	msgAmountNotNumber  = "❌ المبلغ يجب أن يكون رقماً!"

	// statementDateLayout is ddmmyy.
	statementDateLayout = "020106"
)

var fullStatementWords = map[string]bool{
	"كامل": true,
	"full": true,
	"all":  true,
}

// fields splits comma separated input, accepting the Arabic comma as well.
func fields(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '،' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handler) handleAddExpense(ctx context.Context, s Session, text string) (Session, []string) {
	return h.postManual(ctx, s, text, ledger.KindExpense, "❌ خطأ في الصيغة. يجب إدخال: التصنيف, المبلغ, الحساب")
}

func (h *Handler) handleAddIncome(ctx context.Context, s Session, text string) (Session, []string) {
	return h.postManual(ctx, s, text, ledger.KindIncome, "❌ خطأ في الصيغة. يجب إدخال: المصدر, المبلغ, الحساب")
}

func (h *Handler) postManual(ctx context.Context, s Session, text string, kind ledger.Kind, formatErr string) (Session, []string) {
	parts := fields(text)
	if len(parts) < 3 {
		return s, []string{formatErr}
	}
	amount, ok := extractor.ParseAmount(parts[1])
	if !ok {
		return s, []string{msgAmountNotNumber}
	}

	posted, err := h.svc.Transaction.Post(ctx, service.PostRequest{
		Kind:        kind,
		AccountText: parts[2],
		Amount:      amount,
		Label:       parts[0],
		Description: strings.Join(parts[3:], ", "),
	})
	if err != nil {
		return h.fail(ctx, s, err, msgAccountNotFound)
	}
	return s.reset(), []string{h.render.posted(posted)}
}

func (h *Handler) handleTransfer(ctx context.Context, s Session, text string) (Session, []string) {
	parts := fields(text)
	if len(parts) < 3 {
		return s, []string{"❌ خطأ في الصيغة. يجب إدخال: من حساب, إلى حساب, المبلغ"}
	}
	amount, ok := extractor.ParseAmount(parts[2])
	if !ok {
		return s, []string{msgAmountNotNumber}
	}

	out, err := h.svc.Transfer.Request(ctx, parts[0], parts[1], amount)
	if err != nil {
		return h.fail(ctx, s, err, msgAccountsNotFound)
	}
	return h.transferOutcome(ctx, s, out)
}

func (h *Handler) handleTransferConfirm(ctx context.Context, s Session, text string) (Session, []string) {
	out, err := h.svc.Transfer.Confirm(ctx, s.Pending, text)
	if err != nil {
		return h.fail(ctx, s.reset(), err, msgAccountsNotFound)
	}
	if out.State == transfer.StateCancelled {
		return s.reset(), []string{"❌ تم إلغاء التحويل."}
	}
	// the pending transfer is spent whatever the outcome
	return h.transferOutcome(ctx, s.reset(), out)
}

func (h *Handler) transferOutcome(ctx context.Context, s Session, out transfer.Outcome) (Session, []string) {
	switch out.State {
	case transfer.StateExecuted:
		return s.reset(), []string{h.render.transferred(out, h.svc.Account.Budget())}
	case transfer.StatePendingConfirmation:
		s = s.in(StateTransferConfirm)
		s.Pending = out.Pending
		return s, []string{h.render.pending(*out.Pending)}
	case transfer.StateCancelled:
		return s.reset(), []string{"❌ تم إلغاء التحويل."}
	}
	return h.fail(ctx, s, out.Err, msgAccountsNotFound)
}

func (h *Handler) handleNewAccount(ctx context.Context, s Session, text string) (Session, []string) {
	parts := fields(text)
	if len(parts) < 3 {
		return s, []string{"❌ خطأ في الصيغة. يجب إدخال: اسم الحساب, النوع, الرصيد"}
	}
	balance, ok := extractor.ParseAmount(parts[2])
	if !ok {
		return s, []string{"❌ الرصيد يجب أن يكون رقماً!"}
	}
	accountType, _ := ledger.ParseAccountType(parts[1])

	account, err := h.svc.Account.CreateAccount(ctx, parts[0], accountType, balance)
	if err != nil {
		return h.fail(ctx, s, err, msgAccountNotFound)
	}
	return s.reset(), []string{h.render.newAccount(account)}
}

func (h *Handler) handleStatementAccount(ctx context.Context, s Session, text string) (Session, []string) {
	return h.statement(ctx, s, text, ledger.Window{})
}

func (h *Handler) handleDatedStatementAccount(ctx context.Context, s Session, text string) (Session, []string) {
	account, err := h.svc.Account.GetAccount(ctx, text)
	if err != nil {
		return h.fail(ctx, s, err, msgAccountNotFound)
	}

	s = s.in(StateDatedStatementDates)
	s.StatementAccount = account.Name
	return s, []string{"📅 أدخل النطاق الزمني:\n\nأدخل تاريخ البداية والنهاية بالصيغة:\nddmmyy ddmmyy\n\n" +
		"مثال:\n010725 010825 - من 01/07/2025 إلى 01/08/2025\n\nللكشف الكامل أرسل: كامل"}
}

func (h *Handler) handleDatedStatementDates(ctx context.Context, s Session, text string) (Session, []string) {
	w, ok, reply := parseWindow(text)
	if !ok {
		return s, []string{reply}
	}
	return h.statement(ctx, s, s.StatementAccount, w)
}

// parseWindow reads "ddmmyy ddmmyy" or a full-statement word.
func parseWindow(text string) (ledger.Window, bool, string) {
	parts := strings.Fields(ledger.NormalizeDigits(text))
	if len(parts) == 1 && fullStatementWords[strings.ToLower(parts[0])] {
		return ledger.Window{}, true, ""
	}
	if len(parts) != 2 {
		return ledger.Window{}, false, "❌ خطأ في الصيغة. استخدم: ddmmyy ddmmyy أو كامل"
	}

	from, err := time.Parse(statementDateLayout, parts[0])
	if err != nil {
		return ledger.Window{}, false, "❌ خطأ في صيغة التاريخ. استخدم الصيغة: ddmmyy"
	}
	to, err := time.Parse(statementDateLayout, parts[1])
	if err != nil {
		return ledger.Window{}, false, "❌ خطأ في صيغة التاريخ. استخدم الصيغة: ddmmyy"
	}
	if to.Before(from) {
		return ledger.Window{}, false, "❌ تاريخ النهاية قبل تاريخ البداية."
	}
	return ledger.Window{From: omit.From(from), To: omit.From(to)}, true, ""
}

func (h *Handler) statement(ctx context.Context, s Session, accountText string, w ledger.Window) (Session, []string) {
	st, err := h.svc.Statement.Statement(ctx, accountText, w)

	var inconsistency *statement.InconsistencyError
	switch {
	case errors.As(err, &inconsistency):
		return s.reset(), []string{h.render.inconsistency(inconsistency), h.render.statement(st)}
	case err != nil:
		return h.fail(ctx, s, err, msgAccountNotFound)
	}
	return s.reset(), []string{h.render.statement(st)}
}

func (h *Handler) handleBankMessage(ctx context.Context, s Session, text string) (Session, []string) {
	candidates, err := h.svc.Transaction.Extract(ctx, text)
	if errors.Is(err, extractor.ErrExtractionEmpty) {
		return s.reset(), []string{"❌ لم أستطع فهم رسالة البنك.\nيمكنك إدخال المعاملة يدوياً باستخدام الخيارات الأخرى.\n\n" +
			"💡 نصائح للمساعدة:\n• تأكد من وجود كلمات مثل 'شراء' أو 'تحويل' أو 'مبلغ'\n• تأكد من وجود المبلغ بالريال"}
	}
	if err != nil {
		return h.fail(ctx, s, err, msgAccountNotFound)
	}

	s = s.in(StateConfirmExtracted)
	s.Extracted = candidates

	replies := make([]string, 0, len(candidates)+1)
	for _, tx := range candidates {
		replies = append(replies, h.render.candidate(tx, h.svc.Transaction.InferAccount(tx)))
	}
	replies = append(replies, "📝 للموافقة أرسل: نعم\n❌ للإلغاء أرسل: لا")
	return s, replies
}

func (h *Handler) handleConfirmExtracted(ctx context.Context, s Session, text string) (Session, []string) {
	if len(s.Extracted) == 0 {
		return s.reset(), []string{"❌ لا توجد معاملة معلقة!"}
	}
	if !transfer.IsAffirmative(text) {
		return s.reset(), []string{"❌ تم إلغاء المعاملة."}
	}

	var replies []string
	var unassigned []extractor.ExtractedTransaction
	for _, tx := range s.Extracted {
		posted, err := h.svc.Transaction.PostExtracted(ctx, tx, "")
		if needsAccount(err) {
			unassigned = append(unassigned, tx)
			continue
		}
		if err != nil {
			_, failed := h.fail(ctx, s, err, msgAccountNotFound)
			replies = append(replies, failed...)
			continue
		}
		replies = append(replies, h.render.posted(posted))
	}

	if len(unassigned) == 0 {
		return s.reset(), replies
	}
	s = s.in(StateExtractedAccount)
	s.Extracted = unassigned
	return s, append(replies, h.askAccount(unassigned[0]))
}

// needsAccount reports whether posting failed only because the account could
// not be inferred or was not unique.
func needsAccount(err error) bool {
	var ambiguous *ledger.AmbiguousAccountError
	return errors.Is(err, ledger.ErrAccountNotFound) || errors.As(err, &ambiguous)
}

func (h *Handler) askAccount(tx extractor.ExtractedTransaction) string {
	return h.render.candidate(tx, "") + "\n\n❓ في أي حساب أسجل هذه المعاملة؟ أرسل اسم الحساب:\n\n" +
		accountList(h.svc.Account.Names())
}

// handleExtractedAccount posts the first unassigned candidate to the account
// the user named, then asks about the next one.
func (h *Handler) handleExtractedAccount(ctx context.Context, s Session, text string) (Session, []string) {
	if len(s.Extracted) == 0 {
		return s.reset(), []string{"❌ لا توجد معاملة معلقة!"}
	}

	posted, err := h.svc.Transaction.PostExtracted(ctx, s.Extracted[0], text)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return s, []string{msgAccountNotFound + "\n\n" + accountList(h.svc.Account.Names())}
	}
	if err != nil {
		return h.fail(ctx, s, err, msgAccountNotFound)
	}

	replies := []string{h.render.posted(posted)}
	rest := append([]extractor.ExtractedTransaction(nil), s.Extracted[1:]...)
	if len(rest) == 0 {
		return s.reset(), replies
	}
	s.Extracted = rest
	return s, append(replies, h.askAccount(rest[0]))
}
