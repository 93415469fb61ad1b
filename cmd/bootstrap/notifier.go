package bootstrap

import (
	"context"
	"log/slog"

	"family-booking/internal/notifier"
	"family-booking/internal/pkg/clock"
	"family-booking/internal/pkg/config"
	"family-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewMailer,
		NewRenderer,
		NewNotifierWorker,
	),
	fx.Invoke(StartNotifierWorker),
)

func NewMailer(cfg config.Config) notifier.Mailer {
	return notifier.NewMailer(cfg.Mail)
}

func NewRenderer(cfg config.Config) *notifier.Renderer {
	return notifier.NewRenderer(cfg.Mail, cfg.Admin)
}

func NewNotifierWorker(uow shared.UnitOfWork, mailer notifier.Mailer, renderer *notifier.Renderer, clk clock.Clock, cfg config.Config) *notifier.Worker {
	return notifier.NewWorker(uow, mailer, renderer, clk, cfg.Mail.DispatchSpec)
}

func StartNotifierWorker(lc fx.Lifecycle, worker *notifier.Worker, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("📨 通知ワーカーを起動します")
			return worker.Start()
		},
		OnStop: func(_ context.Context) error {
			logger.Info("通知ワーカーを停止します")
			worker.Stop()
			return nil
		},
	})
}
