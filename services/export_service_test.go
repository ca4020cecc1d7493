package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Dosada05/pickup-scoreboard/storage"
)

type memoryUploader struct {
	objects map[string][]byte
}

func (u *memoryUploader) Upload(_ context.Context, key string, _ string, r io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(_ context.Context, key string) error {
	delete(u.objects, key)
	return nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func TestExportResults(t *testing.T) {
	f := newFixture(t)
	g := f.createGame(t, 3, "")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	up := &memoryUploader{objects: map[string][]byte{}}
	svc := NewExportService(f.results, up, logger).(*exportService)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

	location, err := svc.ExportResults(f.ctx, g.Game.ID)
	if err != nil {
		t.Fatalf("ExportResults() error = %v", err)
	}
	key := "exports/sunday-five-" + g.Game.ID.String() + ".json"
	if location != "https://cdn.example.com/"+key {
		t.Fatalf("location = %q", location)
	}

	var doc ExportDocument
	if err := json.Unmarshal(up.objects[key], &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(doc.Teams) != 3 || len(doc.Players) != 6 || doc.Limited {
		t.Fatalf("unexpected export %+v", doc)
	}
	if !doc.ExportedAt.Equal(svc.now()) {
		t.Fatalf("exported_at = %v", doc.ExportedAt)
	}

	if err := svc.DeleteExport(f.ctx, g.Game.ID); err != nil {
		t.Fatalf("DeleteExport() error = %v", err)
	}
	if _, ok := up.objects[key]; ok {
		t.Fatal("export was not deleted")
	}
}

func TestExportDisabledWithoutStorage(t *testing.T) {
	f := newFixture(t)
	g := f.createGame(t, 2, "")
	svc := NewExportService(f.results, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := svc.ExportResults(f.ctx, g.Game.ID); !errors.Is(err, ErrExportDisabled) {
		t.Fatalf("ExportResults() = %v, want ErrExportDisabled", err)
	}
}
