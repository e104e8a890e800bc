package initializers

import (
	"context"
	"idea-portal-backend/config"
	"idea-portal-backend/fiberlog"
	"idea-portal-backend/lib/credentials"
	xlsexport "idea-portal-backend/lib/export/xls"
	filestorage "idea-portal-backend/lib/file-storage"
	ideahandler "idea-portal-backend/lib/idea"
	relocationworker "idea-portal-backend/lib/idea/relocation-worker"
	"idea-portal-backend/lib/locales"
	"idea-portal-backend/lib/metrics"
	"idea-portal-backend/lib/notification"
	"idea-portal-backend/lib/otp"
	"idea-portal-backend/lib/smtp"
	connectionhub "idea-portal-backend/lib/ws/hub/connection-hub"
	s3client "idea-portal-backend/s3"
	"time"

	log "github.com/sirupsen/logrus"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	config.InitConfig()
	LoggerConfig = InitLogger()
	InitSentry()
	metrics.Init()
	if err := locales.Init(config.Conf.App.DefaultLanguage); err != nil {
		log.WithError(err).Warn("ошибка загрузки локализации, используется английский")
	}
	InitDBConnection()
	InitMongo()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	filestorage.NewHandler(s3client.Client, config.Conf.S3.BucketName)
	credentials.NewHandler()
	notification.NewHandler(smtp.Instance, config.Conf.Notification.QueueSize, config.Conf.Notification.SendsPerSecond)
	notification.Instance.Start(ctx)
	otp.NewHandler(seconds(config.Conf.Otp.TTLInSec), config.Conf.Otp.RequestsPerMinute)
	ideahandler.NewHandler(config.Conf.Smtp.SenderName)
	xlsexport.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Завершение прерванных переносов отклонённых идей в архив
	relocationworker.StartWorker(ctx,
		seconds(config.Conf.Relocation.IntervalInSec),
		seconds(config.Conf.Relocation.GracePeriodInSec))
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
