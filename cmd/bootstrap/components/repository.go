package components

import (
	"booking-reconciler/internal/infra/query"
	"booking-reconciler/internal/infra/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.BookingQueries)),
		),
		repository.NewBookingRepository,
	),
)

func NewDBTX(pool *pgxpool.Pool) query.DBTX {
	return pool
}

func NewSQLQueries(db query.DBTX) *query.Queries {
	return query.New(db)
}
