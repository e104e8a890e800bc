package filestorage

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	UploadAttachment(ctx context.Context, key string, fileReader io.Reader, fileSize int64, contentType string) error
	GetAttachment(ctx context.Context, key string) (*Attachment, error)
}

// Attachment вложение, Reader закрывает вызывающий
type Attachment struct {
	Reader      io.ReadCloser
	Size        int64
	ContentType string
}

var Instance Provider

func NewHandler(s3client *minio.Client, bucketName string) {
	Instance = &impl{
		s3client:   s3client,
		bucketName: bucketName,
	}
}

type impl struct {
	s3client   *minio.Client
	bucketName string
}

func (i impl) UploadAttachment(ctx context.Context, key string, fileReader io.Reader, fileSize int64, contentType string) error {
	if i.s3client == nil {
		return errors.New("хранилище файлов не настроено")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := i.s3client.PutObject(ctx, i.bucketName, key, fileReader, fileSize, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "ошибка загрузки вложения")
	}
	log.WithField("key", key).Debug("вложение загружено")
	return nil
}

// GetAttachment nil, если объекта нет
func (i impl) GetAttachment(ctx context.Context, key string) (*Attachment, error) {
	if i.s3client == nil {
		return nil, errors.New("хранилище файлов не настроено")
	}
	obj, err := i.s3client.GetObject(ctx, i.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения вложения")
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, errors.Wrap(err, "ошибка получения вложения")
	}
	return &Attachment{
		Reader:      obj,
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}
