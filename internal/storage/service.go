package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"
)

// ExportService writes JSON documents through a driver and hands back a URL for them.
type ExportService struct {
	Driver    StorageDriver
	URLExpiry time.Duration
}

func NewExportService(driver StorageDriver) *ExportService {
	return &ExportService{Driver: driver, URLExpiry: 24 * time.Hour}
}

// ExportJSON stores doc as indented JSON at prefix/name.json. The object is
// removed again when no URL can be produced for it.
func (s *ExportService) ExportJSON(ctx context.Context, prefix, name string, doc any) (*StoredObject, error) {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	key := path.Join(prefix, name+".json")
	const contentType = "application/json"

	if err := s.Driver.Save(ctx, key, bytes.NewReader(body), contentType); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.Driver.GenerateURL(ctx, key, s.URLExpiry)
	if err != nil {
		if delErr := s.Driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned export", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	slog.InfoContext(ctx, "document exported", "key", key, "size", len(body))
	return &StoredObject{
		Key:         key,
		URL:         url,
		Size:        int64(len(body)),
		ContentType: contentType,
	}, nil
}

// Open streams a stored object back with its content type.
func (s *ExportService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.Driver.Get(ctx, key)
}
