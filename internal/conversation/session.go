package conversation

import (
	"context"
	"sync"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

// State is where a chat is inside a multi-turn operation.
type State string

const (
	StateIdle                  State = "idle"
	StateAddExpense            State = "add_expense"
	StateAddIncome             State = "add_income"
	StateTransfer              State = "transfer"
	StateTransferConfirm       State = "transfer_confirm"
	StateNewAccount            State = "new_account"
	StateStatementAccount      State = "statement_account"
	StateDatedStatementAccount State = "dated_statement_account"
	StateDatedStatementDates   State = "dated_statement_dates"
	StateBankMessage           State = "bank_message"
	StateConfirmExtracted      State = "confirm_extracted"
	StateExtractedAccount      State = "extracted_account"
)

// Session is the per-chat state carried from one turn to the next.
type Session struct {
	ChatID int64
	State  State
	// Pending is the transfer waiting in StateTransferConfirm.
	Pending *transfer.Pending
	// Extracted are the candidates waiting in StateConfirmExtracted, or the
	// ones still needing an account in StateExtractedAccount.
	Extracted []extractor.ExtractedTransaction
	// StatementAccount is the account chosen in StateDatedStatementAccount.
	StatementAccount string
}

// NewSession returns an idle session for the chat.
func NewSession(chatID int64) Session {
	return Session{ChatID: chatID, State: StateIdle}
}

func (s Session) reset() Session {
	return NewSession(s.ChatID)
}

func (s Session) in(state State) Session {
	s.State = state
	return s
}

// SessionStore keeps sessions in memory and runs one turn per chat at a time.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]Session
	locks    map[int64]*sync.Mutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Get returns the chat's session, idle when the chat is new.
func (s *SessionStore) Get(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[chatID]; ok {
		return session
	}
	return NewSession(chatID)
}

func (s *SessionStore) Put(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ChatID] = session
}

func (s *SessionStore) chatLock(chatID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[chatID] = l
	}
	return l
}

// Turn feeds text to the handler with the chat's stored session and stores
// the session it returns.
func (s *SessionStore) Turn(ctx context.Context, h *Handler, chatID int64, text string) []string {
	l := s.chatLock(chatID)
	l.Lock()
	defer l.Unlock()

	next, replies := h.Handle(ctx, s.Get(chatID), text)
	s.Put(next)
	return replies
}

// Bot pairs a Handler with the sessions it advances.
type Bot struct {
	handler  *Handler
	sessions *SessionStore
}

func NewBot(h *Handler, sessions *SessionStore) *Bot {
	return &Bot{handler: h, sessions: sessions}
}

// Turn runs one turn for the chat.
func (b *Bot) Turn(ctx context.Context, chatID int64, text string) []string {
	return b.sessions.Turn(ctx, b.handler, chatID, text)
}

// Keyboard returns the menu buttons shown with every reply.
func (b *Bot) Keyboard() [][]string {
	return Keyboard
}
