package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/storage"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const exportContentType = "application/json"

// ExportDocument is the snapshot written to object storage.
type ExportDocument struct {
	ExportedAt time.Time `json:"exported_at"`
	Results
}

type ExportService interface {
	// ExportResults uploads the ranked ledger of a game and returns its public URL.
	ExportResults(ctx context.Context, gameID uuid.UUID) (string, error)
	DeleteExport(ctx context.Context, gameID uuid.UUID) error
}

type exportService struct {
	results  ResultsService
	uploader storage.FileUploader
	logger   *slog.Logger
	now      func() time.Time
}

// NewExportService returns a service that fails with ErrExportDisabled when
// uploader is nil.
func NewExportService(results ResultsService, uploader storage.FileUploader, logger *slog.Logger) ExportService {
	return &exportService{
		results:  results,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

func exportKey(game *models.Game) string {
	return fmt.Sprintf("exports/%s-%s.json", slug.Make(game.Name), game.ID)
}

func (s *exportService) ExportResults(ctx context.Context, gameID uuid.UUID) (string, error) {
	if s.uploader == nil {
		return "", ErrExportDisabled
	}

	// exports always carry the full ledger
	res, err := s.results.Results(ctx, gameID, models.Entitlement{Billing: models.BillingLifetime})
	if err != nil {
		return "", err
	}
	res.Limited = false

	body, err := json.MarshalIndent(ExportDocument{ExportedAt: s.now().UTC(), Results: *res}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	key := exportKey(res.Game)
	uploaded, err := s.uploader.Upload(ctx, key, exportContentType, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("export results: %w", err)
	}

	s.logger.Info("results exported", slog.String("game_id", gameID.String()), slog.String("key", uploaded.Key))
	return uploaded.Location, nil
}

func (s *exportService) DeleteExport(ctx context.Context, gameID uuid.UUID) error {
	if s.uploader == nil {
		return ErrExportDisabled
	}
	res, err := s.results.Results(ctx, gameID, models.Entitlement{})
	if err != nil {
		return err
	}
	if err := s.uploader.Delete(ctx, exportKey(res.Game)); err != nil {
		return fmt.Errorf("delete export: %w", err)
	}
	return nil
}
