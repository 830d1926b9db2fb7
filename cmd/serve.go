package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"wefund/internal/admin"
	"wefund/internal/api"
	"wefund/internal/api/handler/v1handler"
	"wefund/internal/auth"
	"wefund/internal/compliance"
	"wefund/internal/config"
	"wefund/internal/funding"
	"wefund/internal/messaging"
	"wefund/internal/notify"
	"wefund/internal/verify"
	"wefund/internal/wallet"
	"wefund/internal/worker"
	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/mailer/smtp"
	"wefund/pkg/momo/personal"
	"wefund/pkg/push/fcm"
	"wefund/pkg/screening/amlhttp"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dailySnapshotSpec fires shortly after midnight so the snapshot covers the
// whole previous day.
const dailySnapshotSpec = "5 0 * * *"

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...")
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server, background workers and the daily scheduler",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			// delivery channels
			sender := fcm.New(http.DefaultClient, cfg.FCM.ServerKey)
			mail := smtp.New(smtp.Options{
				Host:     cfg.SMTP.Host,
				Port:     cfg.SMTP.Port,
				Username: cfg.SMTP.Username,
				Password: cfg.SMTP.Password,
				From:     cfg.SMTP.From,
			})
			gateway := personal.New(cfg.MoMo.PhoneNumber,
				domain.MoMoProvider(cfg.MoMo.Provider), cfg.MoMo.AccountName)
			screener := amlhttp.New(http.DefaultClient, cfg.Compliance.BaseURL, cfg.Compliance.APIKey)

			// services
			notifier := notify.New(strg, sender, notify.NewOptions(cfg))
			verifier := verify.New(strg, notifier, verify.NewOptions(cfg))
			authSvc, err := auth.New(strg, verifier, auth.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not create auth service", zap.Error(err))
			}
			adminSvc := admin.New(strg, notifier)
			hub := messaging.NewHub()

			stopWebserver := setupServer(ctx, cfg, api.Deps{
				Deps: v1handler.Deps{
					Auth:       authSvc,
					Verifier:   verifier,
					Funding:    funding.New(strg, notifier, funding.NewOptions(cfg)),
					Wallet:     wallet.New(strg, gateway, notifier, wallet.NewOptions(cfg)),
					Compliance: compliance.New(strg, screener, notifier, compliance.NewOptions(cfg)),
					Messaging:  messaging.New(strg, notifier, hub),
					Notifier:   notifier,
					Admin:      adminSvc,
					Hub:        hub,
				},
				Ping: strg.Pool.Ping,
			})

			riverClient, err := worker.Start(ctx, strg.Pool, notifier, mail, worker.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not start workers", zap.Error(err))
			}

			scheduler := cron.New()
			_, err = scheduler.AddFunc(dailySnapshotSpec, func() {
				if _, err := adminSvc.SnapshotDaily(ctx); err != nil {
					logger.Error(ctx, "could not store daily analytics snapshot", zap.Error(err))
				}
			})
			if err != nil {
				logger.Fatal(ctx, "could not schedule daily snapshot", zap.Error(err))
			}
			scheduler.Start()

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			<-scheduler.Stop().Done()
			if err := riverClient.Stop(shutdownCtx); err != nil {
				logger.Error(ctx, "could not stop workers", zap.Error(err))
			}
			stopWebserver(shutdownCtx)
		},
	}

	return cmd
}
