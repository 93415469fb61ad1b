package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"family-booking/internal/pkg/config"
	"family-booking/internal/usecase/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

var CleanupModule = fx.Module("cleanup",
	fx.Invoke(ScheduleCleanup),
)

// ScheduleCleanup purges old decided requests once at startup and then on
// the configured cron schedule. A failed sweep is logged and retried at
// the next tick; it never blocks startup.
func ScheduleCleanup(lc fx.Lifecycle, bookingCommands commands.BookingCommands, cfg config.Config, logger *slog.Logger) {
	c := cron.New()

	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		deleted, err := bookingCommands.Cleanup(ctx, cfg.Cleanup.Retention)
		if err != nil {
			logger.Error("古いリクエストの削除に失敗しました", "error", err)
			return
		}
		if deleted > 0 {
			logger.Info("古いリクエストを削除しました", "deleted", deleted)
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if _, err := c.AddFunc(cfg.Cleanup.CronSpec, sweep); err != nil {
				return err
			}
			c.Start()
			go sweep()
			return nil
		},
		OnStop: func(_ context.Context) error {
			stopCtx := c.Stop()
			<-stopCtx.Done()
			return nil
		},
	})
}
