package components

import (
	"family-booking/internal/infra/db"
	"family-booking/internal/infra/readstore"
	"family-booking/internal/infra/uow"
	"family-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		// UnitOfWork (write side; lazily opens the booking and outbox repos per tx)
		uow.NewPostgresUoW,
		// Booking read side
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
