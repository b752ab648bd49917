package orm

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hack-community/hackmate/internal/database"
	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
	"github.com/hack-community/hackmate/pkg/txs"
)

const uniqueViolationCode = "23505"

type ParticipationRepository struct {
	db        *database.PostgresDB
	sq        sq.StatementBuilderType
	txManager *txs.TxManager
}

func NewParticipationRepository(db *database.PostgresDB, txManager *txs.TxManager) *ParticipationRepository {
	return &ParticipationRepository{
		db:        db,
		sq:        sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		txManager: txManager,
	}
}

// Add регистрирует участие в транзакции, создавая при необходимости строку
// пользователя. Повторная регистрация возвращает ErrAlreadyParticipating.
func (r *ParticipationRepository) Add(ctx context.Context, userID int64, username string, hackathonID int64) error {
	return r.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		querier := txs.GetQuerier(ctx, r.db.Pool)

		userQuery := r.sq.Insert("users").
			Columns("user_id", "username").
			Values(userID, username).
			Suffix("ON CONFLICT (user_id) DO NOTHING")

		query, args, err := userQuery.ToSql()
		if err != nil {
			return &customerrors.ErrBuildSQLQuery{Operation: "создание пользователя", Cause: err}
		}

		if _, err := querier.Exec(ctx, query, args...); err != nil {
			return &customerrors.ErrSQLExecution{Operation: "создание пользователя", Cause: err}
		}

		participationQuery := r.sq.Insert("participations").
			Columns("user_id", "hackathon_id").
			Values(userID, hackathonID)

		query, args, err = participationQuery.ToSql()
		if err != nil {
			return &customerrors.ErrBuildSQLQuery{Operation: "регистрация участия", Cause: err}
		}

		if _, err := querier.Exec(ctx, query, args...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return &customerrors.ErrAlreadyParticipating{UserID: userID, HackathonID: hackathonID}
			}

			return &customerrors.ErrSQLExecution{Operation: "регистрация участия", Cause: err}
		}

		return nil
	})
}

func (r *ParticipationRepository) Exists(ctx context.Context, userID, hackathonID int64) (bool, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("1").
		From("participations").
		Where(sq.Eq{"user_id": userID, "hackathon_id": hackathonID}).
		Limit(1)

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return false, &customerrors.ErrBuildSQLQuery{Operation: "проверка участия", Cause: err}
	}

	var exists bool

	err = querier.QueryRow(ctx, "SELECT EXISTS("+query+")", args...).Scan(&exists)
	if err != nil {
		return false, &customerrors.ErrSQLExecution{Operation: "проверка участия", Cause: err}
	}

	return exists, nil
}

func (r *ParticipationRepository) FindParticipants(ctx context.Context, hackathonID int64) ([]*models.Participant, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("u.username", "u.profile").
		From("users u").
		Join("participations p ON u.user_id = p.user_id").
		Where(sq.Eq{"p.hackathon_id": hackathonID}).
		OrderBy("u.user_id")

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение участников хакатона", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "получение участников хакатона", Cause: err}
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
		return nil, &customerrors.ErrSQLExecution{Operation: "чтение участников", Cause: err}
	}

	return participants, nil
}
