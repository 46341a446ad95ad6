package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-bot/internal/conversation"
	"github.com/carson-networks/finance-bot/internal/handlers/v1/account"
	"github.com/carson-networks/finance-bot/internal/handlers/v1/chat"
	"github.com/carson-networks/finance-bot/internal/handlers/v1/statements"
	"github.com/carson-networks/finance-bot/internal/handlers/v1/status"
	"github.com/carson-networks/finance-bot/internal/handlers/v1/transaction"
	"github.com/carson-networks/finance-bot/internal/handlers/v1/transfers"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	Bot     *conversation.Bot
	// Allowed gates the chat endpoint; nil allows every chat.
	Allowed func(chatID int64) bool
}

// Router builds the chi router with every endpoint registered on huma.
func (r *Rest) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(logging.Middleware(r.Logger))

	api := humachi.New(router, huma.DefaultConfig("finance-bot", "1.0.0"))

	status.NewHandler(r.Service.Account).Register(api)
	chat.NewHandler(r.Bot, r.Allowed).Register(api)
	account.NewListAccountsHandler(r.Service.Account).Register(api)
	account.NewCreateAccountHandler(r.Service.Account).Register(api)
	transaction.NewCreateTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(api)
	transaction.NewExtractHandler(r.Service.Transaction).Register(api)
	transfers.NewCreateTransferHandler(r.Service.Transfer).Register(api)
	statements.NewGetStatementHandler(r.Service.Statement).Register(api)

	return router
}

func (r *Rest) Serve() error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
	return nil
}
