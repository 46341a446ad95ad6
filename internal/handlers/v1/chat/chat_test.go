package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBot struct {
	mock.Mock
}

func (m *mockBot) Turn(ctx context.Context, chatID int64, text string) []string {
	args := m.Called(ctx, chatID, text)
	replies, _ := args.Get(0).([]string)
	return replies
}

func (m *mockBot) Keyboard() [][]string {
	return [][]string{{"a", "b"}}
}

func newTestAPI(t *testing.T, b bot, allowed func(int64) bool) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(b, allowed).Register(api)
	return api
}

// -- Chat HTTP tests --

func TestHTTP_Chat_Turn(t *testing.T) {
	b := new(mockBot)
	b.On("Turn", mock.Anything, int64(42), "/start").Return([]string{"menu"})

	resp := newTestAPI(t, b, nil).Post("/v1/chat/42", ChatBody{Text: "/start"})

	require.Equal(t, http.StatusOK, resp.Code)
	var body ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"menu"}, body.Messages)
	assert.Equal(t, [][]string{{"a", "b"}}, body.Keyboard)
	b.AssertExpectations(t)
}

func TestHTTP_Chat_Forbidden(t *testing.T) {
	b := new(mockBot)
	allowed := func(id int64) bool { return id == 1 }

	resp := newTestAPI(t, b, allowed).Post("/v1/chat/42", ChatBody{Text: "hi"})

	assert.Equal(t, http.StatusForbidden, resp.Code)
	b.AssertNotCalled(t, "Turn")
}

func TestHTTP_Chat_BadChatID(t *testing.T) {
	b := new(mockBot)

	resp := newTestAPI(t, b, nil).Post("/v1/chat/abc", ChatBody{Text: "hi"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestHTTP_Chat_EmptyText(t *testing.T) {
	b := new(mockBot)

	resp := newTestAPI(t, b, nil).Post("/v1/chat/1", ChatBody{Text: ""})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	b.AssertNotCalled(t, "Turn")
}
