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

type UserRepository struct {
	db *database.PostgresDB
}

func NewUserRepository(db *database.PostgresDB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO users (user_id, username, profile) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET username = $2, profile = $3`,
		user.ID, user.Username, user.Profile)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении пользователя: %w", err)
	}

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{ID: userID}

	err := r.db.Pool.QueryRow(ctx,
		"SELECT username, profile FROM users WHERE user_id = $1", userID).
		Scan(&user.Username, &user.Profile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrUserNotFound{UserID: userID}
		}

		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.Pool.Query(ctx,
		"SELECT user_id, username, profile FROM users ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}
	defer rows.Close()

	var users []*models.User

	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Profile); err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "пользователь", Cause: err}
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении пользователей: %w", err)
	}

	return users, nil
}
