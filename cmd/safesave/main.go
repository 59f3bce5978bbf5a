package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/config"
	"github.com/Chiki-tella/safesave/internal/database"
	"github.com/Chiki-tella/safesave/internal/logger"
	"github.com/Chiki-tella/safesave/internal/seed"
	"github.com/Chiki-tella/safesave/internal/service"
	"github.com/Chiki-tella/safesave/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Store.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	zl := logger.New()
	defer zl.Sync()

	notifier := store.NewNotifier(zl)
	slots := store.NewSQLite(db, cfg.Store.Namespace, notifier, zl)

	if err := seed.Run(ctx, slots, zl, seed.Options{
		Demo:          cfg.Seed.Demo,
		OverrideNames: cfg.Seed.OverrideNames,
	}); err != nil {
		log.Fatalf("seed: %v", err)
	}

	overrides := service.NewOverrides(cfg.Seed.OverrideNames, cfg.Seed.OverrideOutstanding)
	accounts := &service.AccountService{Store: slots, Log: zl}
	members := &service.MemberService{Store: slots, Log: zl}
	savings := &service.SavingsService{Store: slots, Log: zl}
	loans := &service.LoanService{Store: slots, Log: zl, Overrides: overrides}
	investments := &service.InvestmentService{Store: slots, Log: zl}

	views := summaryViews{
		accounts:    accounts,
		members:     members,
		savings:     savings,
		loans:       loans,
		investments: investments,
	}

	sub := notifier.Subscribe()
	defer sub.Cancel()
	go notifier.Poll(ctx, cfg.Notify.PollInterval)

	zl.Info("safesave running",
		zap.String("db", cfg.Store.Path),
		zap.Duration("poll", cfg.Notify.PollInterval))

	for {
		select {
		case <-ctx.Done():
			zl.Info("shutting down")
			return
		case ev := <-sub.C:
			views.log(ctx, zl, ev.Key)
		}
	}
}

// summaryViews recomputes the derived views after a slot change; this
// is the headless stand-in for the screens the web client renders.
type summaryViews struct {
	accounts    *service.AccountService
	members     *service.MemberService
	savings     *service.SavingsService
	loans       *service.LoanService
	investments *service.InvestmentService
}

func (v summaryViews) log(ctx context.Context, zl *zap.Logger, key string) {
	group, err := v.savings.Summary(ctx)
	if err != nil {
		zl.Warn("savings summary failed", zap.Error(err))
		return
	}
	outstanding, err := v.loans.Outstanding(ctx)
	if err != nil {
		zl.Warn("loan summary failed", zap.Error(err))
		return
	}
	invested, err := v.investments.Summary(ctx)
	if err != nil {
		zl.Warn("investment summary failed", zap.Error(err))
		return
	}
	pendingMembers, err := v.members.Requests(ctx)
	if err != nil {
		zl.Warn("membership view failed", zap.Error(err))
		return
	}
	pendingLoans, err := v.loans.Pending(ctx)
	if err != nil {
		zl.Warn("loan request view failed", zap.Error(err))
		return
	}
	session := "-"
	if u, err := v.accounts.CurrentUser(ctx); err == nil && u != nil {
		session = u.Email
	}
	zl.Info("group state",
		zap.String("changed", key),
		zap.Float64("totalSavings", group.TotalSavings),
		zap.Int("members", group.MemberCount),
		zap.Float64("loansOutstanding", outstanding),
		zap.Float64("totalInvested", invested.TotalInvested),
		zap.Int("pendingMembers", len(pendingMembers)),
		zap.Int("pendingLoans", len(pendingLoans)),
		zap.String("session", session))
}
