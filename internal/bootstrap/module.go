package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"aerotrace/internal/bootstrap/config"
	"aerotrace/internal/bootstrap/database"
	"aerotrace/internal/bootstrap/logging"
	sqliterepo "aerotrace/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "aerotrace/internal/infrastructure/persistence/sqlite/uow"
	"aerotrace/internal/ports"
	"aerotrace/internal/usecase/analysis"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewComponentRepository,
			fx.As(new(ports.ComponentRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideAnalysisService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideAnalysisService(repo ports.ComponentRepository, uow ports.UnitOfWork, cfg config.Config) *analysis.Service {
	return analysis.NewService(repo, uow, analysis.Options{
		Workers:               cfg.Scan.Workers,
		GapInfoDays:           cfg.Scan.GapInfoDays,
		GapWarningDays:        cfg.Scan.GapWarningDays,
		GapCriticalDays:       cfg.Scan.GapCriticalDays,
		UnsignedDocMaxAgeDays: cfg.Scan.UnsignedDocMaxAgeDays,
	})
}
