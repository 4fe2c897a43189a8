package main

import (
	"context"
	"log/slog"
	"os"

	"tripwatch/config"
	"tripwatch/internal/delivery"
	"tripwatch/internal/delivery/http"
	httpmiddleware "tripwatch/internal/delivery/http/middleware"
	"tripwatch/internal/delivery/http/router/handler"
	"tripwatch/internal/delivery/tagreader"
	"tripwatch/internal/delivery/worker"
	"tripwatch/internal/domain/service"
	"tripwatch/internal/infra/cache"
	"tripwatch/internal/infra/geocode"
	"tripwatch/internal/infra/locationagent"
	logs "tripwatch/internal/infra/log"
	"tripwatch/internal/infra/messaging"
	"tripwatch/internal/infra/persistence/postgres"
	"tripwatch/internal/infra/session"
	"tripwatch/internal/infra/tagcode"
	"tripwatch/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
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
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		cache.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewChildRepository,
			postgres.NewGuardianRepository,
			postgres.NewEnrollmentRepository,
			postgres.NewLocationEventRepository,
			postgres.NewDispatchRepository,
			session.NewRedisStore,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			messaging.NewWebhookSender,
			geocode.NewClient,
			locationagent.NewClient,
			newTagCodeService,
		),
	)
}

// newTagCodeService creates a tag code service with dependency injection
func newTagCodeService(cfg *config.Config) service.TagCodeService {
	if cfg.TagCode == nil {
		// Use default values if not configured
		return tagcode.NewTagCodeService(256, "M")
	}

	return tagcode.NewTagCodeService(cfg.TagCode.Size, cfg.TagCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewConfirmationService,
			impl.NewDispatchService,
			impl.NewScanService,
			impl.NewSessionService,
			impl.NewLocationService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			httpmiddleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSessionHandler,
			handler.NewScanHandler,
			handler.NewLocationHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewRetryWorker,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				tagreader.NewSubscriber,
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
