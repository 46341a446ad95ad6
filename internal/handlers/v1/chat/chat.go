package chat

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-bot/internal/logging"
)

// ChatInput is the Huma input for one chat turn.
type ChatInput struct {
	ChatID int64 `path:"chatID" doc:"Chat identifier; each chat keeps its own conversation state"`
	Body   ChatBody
}

// ChatBody is the user's message.
type ChatBody struct {
	Text string `json:"text" minLength:"1" doc:"Message text or a menu button label"`
}

// ChatResponse carries the bot's replies for the turn.
type ChatResponse struct {
	Messages []string   `json:"messages" doc:"Replies in order, each short enough for common chat transports"`
	Keyboard [][]string `json:"keyboard" doc:"Menu buttons to show under the replies"`
}

// ChatOutput is the Huma output for one chat turn.
type ChatOutput struct {
	Body ChatResponse
}

type bot interface {
	Turn(ctx context.Context, chatID int64, text string) []string
	Keyboard() [][]string
}

// Handler handles POST /v1/chat/{chatID}.
type Handler struct {
	Bot bot
	// Allowed reports whether the chat may talk to the bot.
	Allowed func(chatID int64) bool
}

func NewHandler(b bot, allowed func(chatID int64) bool) *Handler {
	return &Handler{Bot: b, Allowed: allowed}
}

// Register registers the chat endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "chat-turn",
		Method:      http.MethodPost,
		Path:        "/v1/chat/{chatID}",
		Summary:     "Send a chat message",
		Description: "Runs one conversation turn for the chat and returns the bot's replies.",
		Tags:        []string{"Chat"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *ChatInput) (*ChatOutput, error) {
	logData := logging.GetLogData(ctx)
	logData.AddData("chatID", input.ChatID)

	if h.Allowed != nil && !h.Allowed(input.ChatID) {
		return nil, huma.NewError(http.StatusForbidden, "chat is not allowed")
	}

	replies := h.Bot.Turn(ctx, input.ChatID, input.Body.Text)
	if replies == nil {
		replies = []string{}
	}
	return &ChatOutput{Body: ChatResponse{Messages: replies, Keyboard: h.Bot.Keyboard()}}, nil
}
