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

const participantCountExpr = "(SELECT COUNT(*) FROM participations pc WHERE pc.hackathon_id = h.id) AS participant_count"

type HackathonRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewHackathonRepository(db *database.PostgresDB) *HackathonRepository {
	return &HackathonRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *HackathonRepository) FindUnjoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error) {
	selectQuery := r.sq.Select(
		"h.id", "h.name", "h.prizes", "h.registration", "h.duration",
		"h.link", "h.telegram_chat", "h.comments", participantCountExpr).
		From("hackathons h").
		Where("h.id NOT IN (SELECT hackathon_id FROM participations WHERE user_id = ?)", userID).
		OrderBy("h.id")

	return r.queryWithCount(ctx, selectQuery, "получение доступных хакатонов")
}

func (r *HackathonRepository) FindJoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error) {
	selectQuery := r.sq.Select(
		"h.id", "h.name", "h.prizes", "h.registration", "h.duration",
		"h.link", "h.telegram_chat", "h.comments", participantCountExpr).
		From("hackathons h").
		Join("participations p ON h.id = p.hackathon_id").
		Where(sq.Eq{"p.user_id": userID}).
		OrderBy("h.id")

	return r.queryWithCount(ctx, selectQuery, "получение хакатонов пользователя")
}

func (r *HackathonRepository) queryWithCount(
	ctx context.Context,
	selectQuery sq.SelectBuilder,
	operation string,
) ([]*models.HackathonWithCount, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: operation, Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: operation, Cause: err}
	}
	defer rows.Close()

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
		return nil, &customerrors.ErrSQLExecution{Operation: operation, Cause: err}
	}

	return hackathons, nil
}

func (r *HackathonRepository) FindAll(ctx context.Context) ([]*models.Hackathon, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("id", "name", "prizes", "registration", "duration", "link", "telegram_chat", "comments").
		From("hackathons").
		OrderBy("id")

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение списка хакатонов", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "получение списка хакатонов", Cause: err}
	}
	defer rows.Close()

	var hackathons []*models.Hackathon

	for rows.Next() {
		h := &models.Hackathon{}

		err := rows.Scan(&h.ID, &h.Name, &h.Prizes, &h.Registration, &h.Duration, &h.Link, &h.TelegramChat, &h.Comments)
		if err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "хакатон", Cause: err}
		}

		hackathons = append(hackathons, h)
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "чтение хакатонов", Cause: err}
	}

	return hackathons, nil
}

func (r *HackathonRepository) FindByID(ctx context.Context, id int64) (*models.Hackathon, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("id", "name", "prizes", "registration", "duration", "link", "telegram_chat", "comments").
		From("hackathons").
		Where(sq.Eq{"id": id})

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение хакатона", Cause: err}
	}

	h := &models.Hackathon{}

	err = querier.QueryRow(ctx, query, args...).
		Scan(&h.ID, &h.Name, &h.Prizes, &h.Registration, &h.Duration, &h.Link, &h.TelegramChat, &h.Comments)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrHackathonNotFound{HackathonID: id}
		}

		return nil, &customerrors.ErrSQLExecution{Operation: "получение хакатона", Cause: err}
	}

	return h, nil
}

func (r *HackathonRepository) Insert(ctx context.Context, h *models.Hackathon) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	insertQuery := r.sq.Insert("hackathons").
		Columns("name", "prizes", "registration", "duration", "link", "telegram_chat", "comments").
		Values(h.Name, h.Prizes, h.Registration, h.Duration, h.Link, h.TelegramChat, h.Comments).
		Suffix("RETURNING id")

	query, args, err := insertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "добавление хакатона", Cause: err}
	}

	if err := querier.QueryRow(ctx, query, args...).Scan(&h.ID); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "добавление хакатона", Cause: err}
	}

	return nil
}

func (r *HackathonRepository) UpdateByName(ctx context.Context, h *models.Hackathon) (bool, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	updateQuery := r.sq.Update("hackathons").
		Set("prizes", h.Prizes).
		Set("registration", h.Registration).
		Set("duration", h.Duration).
		Set("link", h.Link).
		Set("telegram_chat", h.TelegramChat).
		Set("comments", h.Comments).
		Where(sq.Eq{"name": h.Name})

	query, args, err := updateQuery.ToSql()
	if err != nil {
		return false, &customerrors.ErrBuildSQLQuery{Operation: "обновление хакатона", Cause: err}
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return false, &customerrors.ErrSQLExecution{Operation: "обновление хакатона", Cause: err}
	}

	return tag.RowsAffected() > 0, nil
}

func (r *HackathonRepository) DeleteAll(ctx context.Context) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	if _, err := querier.Exec(ctx, "TRUNCATE hackathons RESTART IDENTITY CASCADE"); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "очистка таблицы хакатонов", Cause: err}
	}

	return nil
}
