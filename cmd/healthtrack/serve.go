package main

import (
	"context"
	"log/slog"
	"os"

	"healthtrack/config"
	"healthtrack/internal/delivery"
	"healthtrack/internal/delivery/api"
	"healthtrack/internal/delivery/api/middleware"
	"healthtrack/internal/delivery/api/router/handler"
	"healthtrack/internal/delivery/api/session"
	"healthtrack/internal/infra/auth"
	logs "healthtrack/internal/infra/log"
	"healthtrack/internal/infra/persistence/sqlstore"
	"healthtrack/internal/infra/pubsub"
	"healthtrack/internal/usecase/impl"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func runServe() error {
	app := fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	)
	if err := app.Err(); err != nil {
		return err
	}

	app.Run()

	return nil
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		sqlstore.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			sqlstore.NewTransactionManager,
			sqlstore.NewRepositoryFactory,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
		),
		pubsub.Module,
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewUserService,
			impl.NewProfileService,
			impl.NewRecordService,
			impl.NewDailyRecordService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			session.NewManager,
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewDailyRecordHandler,
			handler.NewRecordHandler,
			handler.NewProfileHandler,
			handler.NewUserHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
