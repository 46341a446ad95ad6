package status

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// StatusOutput is the Huma output for the health check.
type StatusOutput struct {
	Body struct {
		Status   string `json:"status" doc:"Always ok when the server answers"`
		Accounts int    `json:"accounts" doc:"Number of accounts in the loaded ledger"`
	}
}

type accountNamer interface {
	Names() []string
}

// Handler handles GET /status.
type Handler struct {
	Accounts accountNamer
}

func NewHandler(accounts accountNamer) *Handler {
	return &Handler{Accounts: accounts}
}

// Register registers the status endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Health check",
		Tags:        []string{"Status"},
	}, h.handle)
}

func (h *Handler) handle(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	out := &StatusOutput{}
	out.Body.Status = "ok"
	out.Body.Accounts = len(h.Accounts.Names())
	return out, nil
}
