// Package conversation is the chat core: one call per user turn, from the
// current session and the incoming text to the next session and the replies.
package conversation

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/service"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

type Handler struct {
	svc    *service.Service
	log    *logrus.Logger
	render renderer
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log, render: newRenderer()}
}

// Handle runs one turn. The returned session replaces the one passed in.
func (h *Handler) Handle(ctx context.Context, s Session, text string) (Session, []string) {
	logData := logging.NewLogData(h.log)
	ctx = logging.WithLogData(ctx, logData)
	logData.AddData("chatID", s.ChatID)
	logData.AddData("fromState", string(s.State))
	stopTimer := logData.AddTiming("turnMs")

	next, replies := h.dispatch(ctx, s, strings.TrimSpace(text))

	stopTimer()
	logData.AddData("toState", string(next.State))
	logData.AddData("replies", len(replies))
	logData.Log().Info("Turn.Complete")

	var out []string
	for _, reply := range replies {
		out = append(out, split(reply, maxMessageRunes)...)
	}
	return next, out
}

func (h *Handler) dispatch(ctx context.Context, s Session, text string) (Session, []string) {
	switch text {
	case CommandCancel:
		if s.State == StateTransferConfirm && s.Pending != nil {
			h.svc.Transfer.Cancel(*s.Pending)
		}
		return s.reset(), []string{"❌ تم الإلغاء."}
	case CommandStart:
		return s.reset(), []string{h.render.menu()}
	case CommandReload:
		if err := h.svc.Account.Reload(ctx); err != nil {
			return h.fail(ctx, s.reset(), err, msgAccountNotFound)
		}
		return s.reset(), []string{"🔄 تم تحديث البيانات من الملف.", h.render.overview(h.svc.Account.Overview(ctx))}
	}

	// a menu button always starts over
	if action := lookupMenu(text); action != actionNone {
		return h.enter(ctx, s.reset(), action)
	}

	switch s.State {
	case StateAddExpense:
		return h.handleAddExpense(ctx, s, text)
	case StateAddIncome:
		return h.handleAddIncome(ctx, s, text)
	case StateTransfer:
		return h.handleTransfer(ctx, s, text)
	case StateTransferConfirm:
		return h.handleTransferConfirm(ctx, s, text)
	case StateNewAccount:
		return h.handleNewAccount(ctx, s, text)
	case StateStatementAccount:
		return h.handleStatementAccount(ctx, s, text)
	case StateDatedStatementAccount:
		return h.handleDatedStatementAccount(ctx, s, text)
	case StateDatedStatementDates:
		return h.handleDatedStatementDates(ctx, s, text)
	case StateBankMessage:
		return h.handleBankMessage(ctx, s, text)
	case StateConfirmExtracted:
		return h.handleConfirmExtracted(ctx, s, text)
	case StateExtractedAccount:
		return h.handleExtractedAccount(ctx, s, text)
	}
	return s.reset(), []string{"👋 استخدم الأزرار في لوحة المفاتيح للتفاعل مع البوت"}
}

func (h *Handler) enter(ctx context.Context, s Session, action menuAction) (Session, []string) {
	accounts := accountList(h.svc.Account.Names())

	switch action {
	case actionAddExpense:
		return s.in(StateAddExpense), []string{
			"💸 إضافة مصروف جديد:\n\nأدخل البيانات بالصيغة التالية:\nالتصنيف, المبلغ, اسم الحساب[, الوصف]\n\n" +
				accounts + "\n\nأمثلة:\n• طعام, 50, راجح\n• مواصلات, 30, أهلي",
		}
	case actionAddIncome:
		return s.in(StateAddIncome), []string{
			"💰 إضافة دخل جديد:\n\nأدخل البيانات بالصيغة التالية:\nالمصدر, المبلغ, اسم الحساب[, الوصف]\n\n" +
				accounts + "\n\nأمثلة:\n• راتب, 5000, أهلي\n• عمل حر, 300, زراع",
		}
	case actionTransfer:
		return s.in(StateTransfer), []string{
			"🔄 تحويل بين الحسابات:\n\nأدخل البيانات بالصيغة التالية:\nمن حساب, إلى حساب, المبلغ\n\n" +
				accounts + "\n\nمثال:\nماستر, 136, 1000",
		}
	case actionAccounts:
		return s, []string{h.render.overview(h.svc.Account.Overview(ctx))}
	case actionRecent:
		return s, []string{h.render.recent(h.svc.Transaction.Recent(ctx))}
	case actionNewAccount:
		return s.in(StateNewAccount), []string{
			"🏦 إضافة حساب جديد:\n\nأدخل بيانات الحساب بالصيغة التالية:\nاسم الحساب, النوع, الرصيد الأولي\n\n" +
				"📋 أنواع الحسابات المتاحة:\n• بنك\n• بطاقة ائتمان\n• نقدي\n• دين\n• أشخاص\n\n" +
				"أمثلة:\n• بنك الرياض, بنك, 5000\n• بطاقة الائتمان, بطاقة ائتمان, -1000",
		}
	case actionStatement:
		return s.in(StateStatementAccount), []string{"📋 كشف حساب:\n\nأدخل اسم الحساب:\n\n" + accounts}
	case actionDatedStatement:
		return s.in(StateDatedStatementAccount), []string{"📅 كشف حساب بالتاريخ:\n\nأدخل اسم الحساب فقط، وسيتم سؤالك عن التواريخ لاحقاً.\n\n" + accounts}
	case actionBankMessage:
		return s.in(StateBankMessage), []string{"🏦 معالجة رسالة بنك تلقائية:\n\nأرسل لي رسالة البنك وسأحاول معالجتها تلقائياً."}
	}
	return s, nil
}

// fail turns a failed operation into a reply. Input the user can correct
// keeps the session where it is; everything else ends the operation.
func (h *Handler) fail(ctx context.Context, s Session, err error, notFound string) (Session, []string) {
	var ambiguous *ledger.AmbiguousAccountError
	var insufficient *ledger.InsufficientFundsError
	switch {
	case errors.As(err, &ambiguous):
		return s, []string{"⚠️ الاسم \"" + ambiguous.Input + "\" يطابق أكثر من حساب: " +
			strings.Join(ambiguous.Candidates, "، ") + "\nالرجاء كتابة اسم أدق."}
	case errors.Is(err, ledger.ErrInvalidAmount):
		return s, []string{"❌ المبلغ يجب أن يكون رقماً موجباً!"}
	case errors.Is(err, ledger.ErrInvalidAccountName):
		return s, []string{"❌ اسم الحساب غير صالح!"}
	case errors.As(err, &insufficient):
		return s.reset(), []string{h.render.insufficient(insufficient)}
	case errors.Is(err, ledger.ErrAccountNotFound):
		return s.reset(), []string{notFound}
	case errors.Is(err, ledger.ErrDuplicateAccount):
		return s.reset(), []string{"❌ يوجد حساب بنفس الاسم مسبقاً!"}
	case errors.Is(err, ledger.ErrSameAccount):
		return s.reset(), []string{"❌ لا يمكن التحويل إلى نفس الحساب."}
	case errors.Is(err, transfer.ErrNotPending):
		return s.reset(), []string{"❌ لا يوجد تحويل معلق!"}
	}

	logging.GetLogData(ctx).AddData("error", err.Error())
	h.log.WithError(err).WithField("state", string(s.State)).Error("Turn.Error")
	return s.reset(), []string{"❌ حدث خطأ: " + err.Error()}
}
