// services/media.go
package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/wordnest/vocab_api/shared"
)

// MediaService stores AI-generated word illustrations in object storage and
// hands out presigned URLs. Audio clips from the speech service go through
// here as well when object storage is preferred over the local cache dir.
type MediaService struct {
	context.DefaultService
	sqlSvc   *SqliteService
	minioSvc *MinIOService

	urlExpiry time.Duration
}

const MEDIA_SVC = "media_svc"

func (svc *MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	svc.urlExpiry = 24 * time.Hour
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// StoreWordImage uploads the image bytes for a word and records the
// presigned URL on the word row.
func (svc *MediaService) StoreWordImage(userID, wordID string, data []byte, contentType string) (string, error) {
	word, err := svc.sqlSvc.GetWord(userID, wordID)
	if err != nil {
		return "", shared.NewNotFoundError(err, "Word not found")
	}

	if contentType == "" {
		contentType = "image/png"
	}

	objectName := fmt.Sprintf("words/%s/%s.png", userID, wordID)
	if _, err := svc.minioSvc.UploadFile(objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", shared.NewInternalError(err, "Failed to store image")
	}

	url, err := svc.minioSvc.GetFileURL(objectName, svc.urlExpiry)
	if err != nil {
		return "", shared.NewInternalError(err, "Failed to build image URL")
	}

	word.ImageURL = url
	if err := svc.sqlSvc.UpdateWord(word); err != nil {
		log.WithError(err).WithField("wordID", wordID).Warn("Failed to record image URL on word")
	}

	return url, nil
}

func (svc *MediaService) DeleteWordImage(userID, wordID string) error {
	objectName := fmt.Sprintf("words/%s/%s.png", userID, wordID)
	if err := svc.minioSvc.DeleteFile(objectName); err != nil {
		return shared.NewInternalError(err, "Failed to delete image")
	}
	return nil
}
