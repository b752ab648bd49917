package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hack-community/hackmate/internal/database"
	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

// Все списочные запросы упорядочены по h.id, чтобы позиция при листании
// была детерминированной.
type HackathonRepository struct {
	db *database.PostgresDB
}

func NewHackathonRepository(db *database.PostgresDB) *HackathonRepository {
	return &HackathonRepository{db: db}
}

const hackathonWithCountColumns = `h.id, h.name, h.prizes, h.registration, h.duration, h.link, h.telegram_chat, h.comments,
	(SELECT COUNT(*) FROM participations pc WHERE pc.hackathon_id = h.id) AS participant_count`

func (r *HackathonRepository) FindUnjoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+hackathonWithCountColumns+`
		 FROM hackathons h
		 WHERE h.id NOT IN (SELECT hackathon_id FROM participations WHERE user_id = $1)
		 ORDER BY h.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении доступных хакатонов: %w", err)
	}
	defer rows.Close()

	return scanHackathonsWithCount(rows)
}

func (r *HackathonRepository) FindJoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+hackathonWithCountColumns+`
		 FROM hackathons h
		 JOIN participations p ON h.id = p.hackathon_id
		 WHERE p.user_id = $1
		 ORDER BY h.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении хакатонов пользователя: %w", err)
	}
	defer rows.Close()

	return scanHackathonsWithCount(rows)
}

func (r *HackathonRepository) FindAll(ctx context.Context) ([]*models.Hackathon, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, prizes, registration, duration, link, telegram_chat, comments
		 FROM hackathons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка хакатонов: %w", err)
	}
	defer rows.Close()

	var hackathons []*models.Hackathon

	for rows.Next() {
		h := &models.Hackathon{}
		if err := scanHackathon(rows, h); err != nil {
			return nil, err
		}

		hackathons = append(hackathons, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении хакатонов: %w", err)
	}

	return hackathons, nil
}

func (r *HackathonRepository) FindByID(ctx context.Context, id int64) (*models.Hackathon, error) {
	h := &models.Hackathon{}

	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, name, prizes, registration, duration, link, telegram_chat, comments
		 FROM hackathons WHERE id = $1`, id).
		Scan(&h.ID, &h.Name, &h.Prizes, &h.Registration, &h.Duration, &h.Link, &h.TelegramChat, &h.Comments)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrHackathonNotFound{HackathonID: id}
		}

		return nil, fmt.Errorf("ошибка при получении хакатона: %w", err)
	}

	return h, nil
}

func (r *HackathonRepository) Insert(ctx context.Context, h *models.Hackathon) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO hackathons (name, prizes, registration, duration, link, telegram_chat, comments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		h.Name, h.Prizes, h.Registration, h.Duration, h.Link, h.TelegramChat, h.Comments).
		Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении хакатона: %w", err)
	}

	return nil
}

// UpdateByName обновляет все поля, кроме имени, у хакатона с точно
// совпадающим именем. Возвращает false, если такого хакатона нет.
func (r *HackathonRepository) UpdateByName(ctx context.Context, h *models.Hackathon) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE hackathons
		 SET prizes = $1, registration = $2, duration = $3, link = $4, telegram_chat = $5, comments = $6
		 WHERE name = $7`,
		h.Prizes, h.Registration, h.Duration, h.Link, h.TelegramChat, h.Comments, h.Name)
	if err != nil {
		return false, fmt.Errorf("ошибка при обновлении хакатона: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteAll очищает таблицу хакатонов вместе с участиями и сбрасывает
// счётчик идентификаторов. Деструктивная операция политики replace.
func (r *HackathonRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, "TRUNCATE hackathons RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("ошибка при очистке таблицы хакатонов: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHackathon(row rowScanner, h *models.Hackathon) error {
	err := row.Scan(&h.ID, &h.Name, &h.Prizes, &h.Registration, &h.Duration, &h.Link, &h.TelegramChat, &h.Comments)
	if err != nil {
		return &customerrors.ErrSQLScan{Entity: "хакатон", Cause: err}
	}

	return nil
}

func scanHackathonsWithCount(rows pgx.Rows) ([]*models.HackathonWithCount, error) {
	var hackathons []*models.HackathonWithCount

	for rows.Next() {
		h := &models.HackathonWithCount{}

		err := rows.Scan(&h.ID, &h.Name, &h.Prizes, &h.Registration, &h.Duration,
			&h.Link, &h.TelegramChat, &h.Comments, &h.ParticipantCount)
		if err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "хакатон", Cause: err}
		}

		hackathons = append(hackathons, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении хакатонов: %w", err)
	}

	return hackathons, nil
}
