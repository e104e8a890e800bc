package main

import (
	"context"
	"fmt"
	"idea-portal-backend/config"
	apiv1 "idea-portal-backend/controllers/v1"
	"idea-portal-backend/db"
	_ "idea-portal-backend/docs"
	"idea-portal-backend/fiberlog"
	"idea-portal-backend/initializers"
	"idea-portal-backend/lib/metrics"
	"idea-portal-backend/lib/notification"
	"idea-portal-backend/lib/ws"
	"idea-portal-backend/middleware"
	"idea-portal-backend/mongodb"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	bodyLimit := config.Conf.App.BodyLimitMb * 1024 * 1024
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New(fiberRecover.Config{EnableStackTrace: true}))
	app.Use(middleware.Metrics())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: config.Conf.App.SwaggerFile,
	}
	app.Use(swagger.New(swaggerCfg))
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	//api
	apiV1 := fiber.New()
	apiV1.Use(requestid.New())
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	apiV1.Use(middleware.ErrNotify())
	apiV1.Use(middleware.WithBodyLimit(int64(bodyLimit)))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiv1.InitOtpApiRouters(apiV1)

	//сотрудники и администраторы
	authorized := apiV1.Group("", middleware.AuthorizationRequired())

	//рассмотрение идей
	review := authorized.Group("review", middleware.AdminRoleRequired())
	apiv1.InitReviewApiRouters(review)
	ws.InitWs(review)

	apiv1.InitIdeaApiRouters(authorized)
	apiv1.InitCredentialsApiRouters(authorized)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		// очередь уведомлений досылается после отмены ctx
		select {
		case <-notification.Instance.Done():
		case <-time.After(notification.DrainTimeout + time.Second):
			log.Warn("досылка уведомлений не завершилась вовремя")
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		mongodb.Disconnect(shutdownCtx)
		db.Close()
		sentry.Flush(2 * time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
