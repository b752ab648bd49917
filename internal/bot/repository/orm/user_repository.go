package orm

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hack-community/hackmate/internal/database"
	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
	"github.com/hack-community/hackmate/pkg/txs"
)

type UserRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewUserRepository(db *database.PostgresDB) *UserRepository {
	return &UserRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	insertQuery := r.sq.Insert("users").
		Columns("user_id", "username", "profile").
		Values(user.ID, user.Username, user.Profile).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, profile = EXCLUDED.profile")

	query, args, err := insertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сохранение пользователя", Cause: err}
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение пользователя", Cause: err}
	}

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("username", "profile").
		From("users").
		Where(sq.Eq{"user_id": userID})

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение пользователя", Cause: err}
	}

	user := &models.User{ID: userID}

	err = querier.QueryRow(ctx, query, args...).Scan(&user.Username, &user.Profile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrUserNotFound{UserID: userID}
		}

		return nil, &customerrors.ErrSQLExecution{Operation: "получение пользователя", Cause: err}
	}

	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("user_id", "username", "profile").
		From("users").
		OrderBy("user_id")

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение списка пользователей", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "получение списка пользователей", Cause: err}
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
		return nil, &customerrors.ErrSQLExecution{Operation: "чтение пользователей", Cause: err}
	}

	return users, nil
}
