package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/chatpack/internal/adapter/events"
	"github.com/polkiloo/chatpack/internal/adapter/stripe"
	"github.com/polkiloo/chatpack/internal/app"
	"github.com/polkiloo/chatpack/internal/config"
	"github.com/polkiloo/chatpack/internal/logger"
	"github.com/polkiloo/chatpack/internal/pkg/auth"
	"github.com/polkiloo/chatpack/internal/server/http/router"
	"github.com/polkiloo/chatpack/internal/storage/postgres"
	"github.com/polkiloo/chatpack/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		stripe.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
