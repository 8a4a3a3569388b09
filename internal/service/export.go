package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/storage"
)

type Export struct {
	UserID      string               `json:"user_id"`
	From        string               `json:"from"`
	To          string               `json:"to"`
	Days        []model.DailySummary `json:"days"`
	Meals       []*model.Meal        `json:"meals"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Published is a stored export and its temporary download link.
type Published struct {
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ExportService struct {
	dashboardService *DashboardService
	storage          storage.Storage
	presignExpiry    time.Duration
	now              func() time.Time
}

// NewExportService accepts nil storage, in which case exports can only be
// returned inline.
func NewExportService(dashboardService *DashboardService, storage storage.Storage, presignExpiry time.Duration) *ExportService {
	return &ExportService{
		dashboardService: dashboardService,
		storage:          storage,
		presignExpiry:    presignExpiry,
		now:              time.Now,
	}
}

func (s *ExportService) HasStorage() bool {
	return s.storage != nil
}

func (s *ExportService) Export(ctx context.Context, userID, fromDate, toDate string) (*Export, error) {
	view, err := s.dashboardService.Range(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	return &Export{
		UserID:      userID,
		From:        view.From,
		To:          view.To,
		Days:        view.Days,
		Meals:       view.Meals,
		GeneratedAt: s.now().UTC(),
	}, nil
}

func ExportPath(userID, fromDate, toDate string) string {
	return fmt.Sprintf("exports/%s/%s_%s.json", userID, fromDate, toDate)
}

// Publish uploads the export as JSON and returns a presigned link to it.
func (s *ExportService) Publish(ctx context.Context, export *Export) (*Published, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("export storage is not configured")
	}

	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	path := ExportPath(export.UserID, export.From, export.To)
	err = s.storage.Save(ctx, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, path, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export url: %w", err)
	}

	return &Published{
		Path:      path,
		URL:       url,
		ExpiresAt: s.now().Add(s.presignExpiry).UTC(),
	}, nil
}
