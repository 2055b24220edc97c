package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/calebmonroe/penny/internal/account"
	accountStore "github.com/calebmonroe/penny/internal/account/store"
	"github.com/calebmonroe/penny/internal/config"
	"github.com/calebmonroe/penny/internal/database"
	pennyHttp "github.com/calebmonroe/penny/internal/http"
	accountHandler "github.com/calebmonroe/penny/internal/http/account"
	importReviewHandler "github.com/calebmonroe/penny/internal/http/importreview"
	reconciliationHandler "github.com/calebmonroe/penny/internal/http/reconciliation"
	txHandler "github.com/calebmonroe/penny/internal/http/transaction"
	"github.com/calebmonroe/penny/internal/importreview"
	importReviewStore "github.com/calebmonroe/penny/internal/importreview/store"
	"github.com/calebmonroe/penny/internal/ledger"
	ledgerStore "github.com/calebmonroe/penny/internal/ledger/store"
	"github.com/calebmonroe/penny/internal/reconcile"
	reconcileStore "github.com/calebmonroe/penny/internal/reconcile/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	matchOpts := reconcile.Options{
		MinConfidence:  cfg.Matching.MinConfidence,
		ExactThreshold: cfg.Matching.ExactThreshold,
	}

	var (
		accountService      = account.NewService(accountStore.New(db))
		ledgerService       = ledger.NewService(ledgerStore.New(db))
		reconcileService    = reconcile.NewService(reconcileStore.New(db), ledgerService, matchOpts)
		importReviewService = importreview.NewService(importReviewStore.New(db), ledgerService, cfg.Matching.LookbackDays)
	)

	var (
		accountH        = accountHandler.NewHandler(accountService)
		transactionH    = txHandler.NewHandler(ledgerService, accountService)
		reconciliationH = reconciliationHandler.NewHandler(reconcileService)
		importReviewH   = importReviewHandler.NewHandler(importReviewService)
	)

	router := pennyHttp.New(cfg.Auth.JWTSecret, accountH, transactionH, reconciliationH, importReviewH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
