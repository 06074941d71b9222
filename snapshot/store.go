// Package snapshot содержит хранилище снимков скрейпинга: сырые
// HTML/JSON-страницы складываются под префиксами
// scraped/<source>/<session_id>/. Поддерживаются драйверы: локальная
// файловая система, S3-совместимое объектное хранилище и память (тесты).
package snapshot

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver идентификатор драйвера хранилища
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// ErrNotFound снимок с указанным ключом отсутствует
var ErrNotFound = errors.New("snapshot not found")

// Info метаданные сохраненного снимка
type Info struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	StoredAt    time.Time `json:"stored_at"`
}

// Store интерфейс хранилища снимков
type Store interface {
	Driver() Driver
	// Put сохраняет снимок под ключом, перезаписывая существующий
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	// Get возвращает снимок; ErrNotFound если ключа нет
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	// List возвращает ключи с указанным префиксом в лексикографическом порядке
	List(ctx context.Context, prefix string) ([]string, error)
}

// Key строит ключ снимка по соглашению scraped/<source>/<session>/<name>
func Key(source, sessionID, name string) string {
	return "scraped/" + source + "/" + sessionID + "/" + name
}
