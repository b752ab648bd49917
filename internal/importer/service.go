package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/hack-community/hackmate/internal/common/metrics"
	"github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
	"github.com/hack-community/hackmate/internal/importer/notify"
)

type Policy string

const (
	PolicyUpsert  Policy = "upsert"
	PolicyReplace Policy = "replace"
)

// HackathonRepository — запись в хранилище хакатонов. Импортёр —
// единственный, кто изменяет этот справочник.
type HackathonRepository interface {
	Insert(ctx context.Context, h *models.Hackathon) error
	UpdateByName(ctx context.Context, h *models.Hackathon) (bool, error)
	DeleteAll(ctx context.Context) error
}

// Summary — итог импорта по строкам.
type Summary struct {
	Inserted int
	Updated  int
	Failed   int
}

// Service загружает таблицу хакатонов в базу и анонсирует новые записи.
type Service struct {
	hackathons HackathonRepository
	notifier   notify.Notifier
	logger     *slog.Logger
}

func NewService(hackathons HackathonRepository, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		hackathons: hackathons,
		notifier:   notifier,
		logger:     logger,
	}
}

// Import разбирает CSV и применяет выбранную политику. Ошибки отдельных
// строк копятся и не прерывают импорт остальных.
func (s *Service) Import(ctx context.Context, r io.Reader, policy Policy) (*Summary, error) {
	hackathons, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}

	started := time.Now()

	var summary *Summary

	switch policy {
	case PolicyUpsert:
		summary, err = s.importUpsert(ctx, hackathons)
	case PolicyReplace:
		summary, err = s.importReplace(ctx, hackathons)
	default:
		return nil, &errors.ErrUnknownImportPolicy{Policy: string(policy)}
	}

	if summary != nil {
		metrics.RecordImportDuration(string(policy), time.Since(started))

		s.logger.Info("Импорт завершён",
			"policy", policy,
			"inserted", summary.Inserted,
			"updated", summary.Updated,
			"failed", summary.Failed,
		)
	}

	return summary, err
}

// importUpsert сверяет строки по точному названию: существующий хакатон
// обновляется, новый добавляется. Регистрации участников сохраняются.
func (s *Service) importUpsert(ctx context.Context, hackathons []*models.Hackathon) (*Summary, error) {
	summary := &Summary{}

	var errs error

	for _, h := range hackathons {
		updated, err := s.hackathons.UpdateByName(ctx, h)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("строка %q: %w", h.Name, err))
			summary.Failed++
			metrics.RecordImportedHackathon(string(PolicyUpsert), "error")

			continue
		}

		if updated {
			summary.Updated++
			metrics.RecordImportedHackathon(string(PolicyUpsert), "updated")

			continue
		}

		if err := s.insertAndAnnounce(ctx, h, PolicyUpsert); err != nil {
			errs = multierr.Append(errs, err)
			summary.Failed++

			continue
		}

		summary.Inserted++
	}

	return summary, errs
}

// importReplace очищает справочник и загружает его заново. Вместе с
// хакатонами пропадают и все регистрации участников.
func (s *Service) importReplace(ctx context.Context, hackathons []*models.Hackathon) (*Summary, error) {
	if err := s.hackathons.DeleteAll(ctx); err != nil {
		return nil, err
	}

	summary := &Summary{}

	var errs error

	for _, h := range hackathons {
		if err := s.insertAndAnnounce(ctx, h, PolicyReplace); err != nil {
			errs = multierr.Append(errs, err)
			summary.Failed++

			continue
		}

		summary.Inserted++
	}

	return summary, errs
}

func (s *Service) insertAndAnnounce(ctx context.Context, h *models.Hackathon, policy Policy) error {
	if err := s.hackathons.Insert(ctx, h); err != nil {
		metrics.RecordImportedHackathon(string(policy), "error")
		return fmt.Errorf("строка %q: %w", h.Name, err)
	}

	metrics.RecordImportedHackathon(string(policy), "inserted")

	if err := s.notifier.AnnounceImported(ctx, h); err != nil {
		// Анонс вторичен: хакатон уже в базе, рассылку можно повторить.
		s.logger.Error("Ошибка при анонсе импортированного хакатона",
			"error", err,
			"hackathon", h.Name,
		)
	}

	return nil
}
