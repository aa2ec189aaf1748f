package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"qualrecon/internal/bootstrap/config"
	"qualrecon/internal/bootstrap/database"
	"qualrecon/internal/bootstrap/logging"
	"qualrecon/internal/domain/register"
	sqliterepo "qualrecon/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "qualrecon/internal/infrastructure/persistence/sqlite/uow"
	"qualrecon/internal/infrastructure/runstate"
	"qualrecon/internal/ports"
	"qualrecon/internal/usecase/funding"
	"qualrecon/internal/usecase/reconcile"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(provideEvaluator),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewRegisterRepository,
			fx.As(new(ports.RegisterRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewStagingRepository,
			fx.As(new(ports.StagingRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewReferenceDataRepository,
			fx.As(new(ports.ReferenceDataRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewFundingRepository,
			fx.As(new(ports.FundingRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			runstate.NewStore,
			fx.As(new(ports.RunState)),
		),
	),
	fx.Provide(reconcile.NewService),
	fx.Provide(funding.NewService),
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

func provideEvaluator(cfg config.Config) (*register.Evaluator, error) {
	rules, err := register.LoadEligibilityRules(cfg.Eligibility.RulesFile)
	if err != nil {
		return nil, err
	}
	return register.NewEvaluator(rules), nil
}
