package status

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNamer []string

func (f fakeNamer) Names() []string { return f }

func TestHandler_GoodMethod(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(fakeNamer{"Cash", "Bank"}).Register(api)

	resp := api.Get("/status")

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Status   string `json:"status"`
		Accounts int    `json:"accounts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 2, body.Accounts)
}

func TestHandler_BadMethod(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(fakeNamer{}).Register(api)

	resp := api.Post("/status", map[string]any{})

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}
