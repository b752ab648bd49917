package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hack-community/hackmate/internal/database"
	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

const uniqueViolationCode = "23505"

type ParticipationRepository struct {
	db *database.PostgresDB
}

func NewParticipationRepository(db *database.PostgresDB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// Add регистрирует участие пользователя в хакатоне. Пользователь без анкеты
// ещё не имеет строки в users, поэтому она создаётся в той же транзакции.
// Повторная регистрация возвращает ErrAlreadyParticipating.
func (r *ParticipationRepository) Add(ctx context.Context, userID int64, username string, hackathonID int64) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		"INSERT INTO users (user_id, username) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING",
		userID, username)
	if err != nil {
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO participations (user_id, hackathon_id) VALUES ($1, $2)",
		userID, hackathonID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return &customerrors.ErrAlreadyParticipating{UserID: userID, HackathonID: hackathonID}
		}

		return fmt.Errorf("ошибка при регистрации участия: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

func (r *ParticipationRepository) Exists(ctx context.Context, userID, hackathonID int64) (bool, error) {
	var exists bool

	err := r.db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM participations WHERE user_id = $1 AND hackathon_id = $2)",
		userID, hackathonID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке участия: %w", err)
	}

	return exists, nil
}

func (r *ParticipationRepository) FindParticipants(ctx context.Context, hackathonID int64) ([]*models.Participant, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT u.username, u.profile
		 FROM users u
		 JOIN participations p ON u.user_id = p.user_id
		 WHERE p.hackathon_id = $1
		 ORDER BY u.user_id`, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении участников хакатона: %w", err)
	}
	defer rows.Close()

	var participants []*models.Participant

	for rows.Next() {
		p := &models.Participant{}
		if err := rows.Scan(&p.Username, &p.Profile); err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "участник", Cause: err}
		}

		participants = append(participants, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении участников: %w", err)
	}

	return participants, nil
}
