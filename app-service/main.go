package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/controllers"
	"github.com/rellab/rellab-server/app-service/migrations"
	"github.com/rellab/rellab-server/app-service/models"
	"github.com/rellab/rellab-server/app-service/providers"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/app-service/views"
	"github.com/rellab/rellab-server/server-go"
	"github.com/rellab/rellab-server/utils-go"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
)

func main() {
	opts := []fx.Option{}
	opts = append(opts, provideOptions()...)
	opts = append(opts, fx.Invoke(run))

	app := fx.New(opts...)

	app.Run()
}

func provideOptions() []fx.Option {
	return []fx.Option{
		fx.Provide(config.Parse),
		fx.Invoke(func(config *config.Config) {
			utils.ConfigureLogger(config.LogLevel, !config.IsProduction)
		}),
		fx.Provide(config.ProvideServerConfig),
		fx.Provide(config.ProvideRedisConfig),
		fx.Provide(config.ProvidePostgres),
		fx.Provide(config.ProvideDisks),
		fx.Provide(utils.ProvideLimiterStorage),
		fx.Provide(providers.ProvideMailer),
		fx.Provide(views.ProvideViews),
		fx.Provide(server.CreateServer),
		fx.Provide(utils.GetDefaultRouter),
		fx.Invoke(models.InitModelRegistrations),
		fx.Invoke(migrate),
		fx.Provide(repos.NewCountryRepo),
		fx.Provide(repos.NewTeamRepo),
		fx.Provide(repos.NewUserRepo),
		fx.Provide(repos.NewProjectRepo),
		fx.Provide(repos.NewRoleRepo),
		fx.Provide(repos.NewTaskRepo),
		fx.Provide(repos.NewCommentRepo),
		fx.Provide(repos.NewAttachmentRepo),
		fx.Provide(repos.NewHouseRepo),
		fx.Provide(repos.NewOfficeRepo),
		fx.Provide(repos.NewShopRepo),
		fx.Provide(repos.NewCompanyRepo),
		fx.Invoke(controllers.RegisterSessionController),
		fx.Invoke(controllers.RegisterPagesController),
		fx.Invoke(controllers.RegisterAuthController),
		fx.Invoke(controllers.RegisterCountriesController),
		fx.Invoke(controllers.RegisterTeamsController),
		fx.Invoke(controllers.RegisterUsersController),
		fx.Invoke(controllers.RegisterRolesController),
		fx.Invoke(controllers.RegisterProjectsController),
		fx.Invoke(controllers.RegisterTasksController),
		fx.Invoke(controllers.RegisterAttachmentsController),
		fx.Invoke(controllers.RegisterHousesController),
		fx.Invoke(controllers.RegisterShopsController),
		fx.Invoke(controllers.RegisterAdminController),
	}
}

func migrate(db *bun.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return migrations.Run(ctx, db)
}

func run(app *fiber.App, config *config.Config, db *bun.DB, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			errChan := make(chan error)

			go func() {
				errChan <- app.Listen(config.Port)
			}()

			select {
			case err := <-errChan:
				return err
			case <-time.After(100 * time.Millisecond):
				return nil
			}
		},
		OnStop: func(ctx context.Context) error {
			if err := app.Shutdown(); err != nil {
				return err
			}
			return db.Close()
		},
	})
}
