package sql_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hack-community/hackmate/internal/bot/repository/orm"
	sqlrepo "github.com/hack-community/hackmate/internal/bot/repository/sql"
	"github.com/hack-community/hackmate/internal/config"
	"github.com/hack-community/hackmate/internal/database"
	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
	"github.com/hack-community/hackmate/pkg/txs"
)

var (
	testDB *database.PostgresDB
	logger *slog.Logger
)

type userRepo interface {
	Upsert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID int64) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
}

type hackathonRepo interface {
	FindUnjoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error)
	FindJoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error)
	FindAll(ctx context.Context) ([]*models.Hackathon, error)
	FindByID(ctx context.Context, id int64) (*models.Hackathon, error)
	Insert(ctx context.Context, h *models.Hackathon) error
	UpdateByName(ctx context.Context, h *models.Hackathon) (bool, error)
	DeleteAll(ctx context.Context) error
}

type participationRepo interface {
	Add(ctx context.Context, userID int64, username string, hackathonID int64) error
	Exists(ctx context.Context, userID, hackathonID int64) (bool, error)
	FindParticipants(ctx context.Context, hackathonID int64) ([]*models.Participant, error)
}

type repoSet struct {
	users          userRepo
	hackathons     hackathonRepo
	participations participationRepo
}

func setupTestDatabase(ctx context.Context) (*database.PostgresDB, func(), error) {
	dbName := "testdb"
	dbUser := "testuser"
	dbPassword := "testpassword"

	container, err := postgres.Run(ctx,
		"postgres:16",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(10*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось запустить контейнер postgres: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось получить хост контейнера: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось получить порт контейнера: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, host, port.Port(), dbName)

	migrationsPath, _ := filepath.Abs("../../../../migrations")

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось создать экземпляр migrate: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, nil, fmt.Errorf("не удалось применить миграции: %w", err)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return nil, nil, fmt.Errorf("ошибка закрытия источника миграций: %w", sourceErr)
	}

	if dbErr != nil {
		return nil, nil, fmt.Errorf("ошибка закрытия подключения БД миграций: %w", dbErr)
	}

	testCfg := &config.Config{
		DatabaseURL:     dsn,
		DatabaseMaxConn: 5,
	}

	db, err := database.NewPostgresDB(ctx, testCfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось подключиться к тестовой БД: %w", err)
	}

	cleanup := func() {
		db.Close()

		if err := container.Terminate(ctx); err != nil {
			logger.Error("Не удалось остановить контейнер postgres", "error", err)
		}
	}

	return db, cleanup, nil
}

func TestMain(m *testing.M) {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	exitCode := func() int {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		var cleanup func()

		var err error

		testDB, cleanup, err = setupTestDatabase(ctx)
		if err != nil {
			logger.Error("Ошибка при настройке тестовой БД", "error", err)
			return 1
		}

		code := m.Run()

		cleanup()

		return code
	}()

	os.Exit(exitCode)
}

func clearTables(ctx context.Context, t *testing.T) {
	t.Helper()

	_, err := testDB.Pool.Exec(ctx, "TRUNCATE users, hackathons, participations RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

func newRepoSet(t *testing.T, accessType config.AccessType) repoSet {
	t.Helper()

	switch accessType {
	case config.SQLAccess:
		return repoSet{
			users:          sqlrepo.NewUserRepository(testDB),
			hackathons:     sqlrepo.NewHackathonRepository(testDB),
			participations: sqlrepo.NewParticipationRepository(testDB),
		}
	case config.SquirrelAccess:
		txManager := txs.NewTxManager(testDB.Pool, logger)

		return repoSet{
			users:          orm.NewUserRepository(testDB),
			hackathons:     orm.NewHackathonRepository(testDB),
			participations: orm.NewParticipationRepository(testDB, txManager),
		}
	default:
		t.Fatalf("неизвестный тип доступа: %s", accessType)
		return repoSet{}
	}
}

func forEachAccessType(t *testing.T, test func(t *testing.T, repos repoSet)) {
	t.Helper()

	for _, accessType := range []config.AccessType{config.SQLAccess, config.SquirrelAccess} {
		t.Run(string(accessType), func(t *testing.T) {
			clearTables(context.Background(), t)
			test(t, newRepoSet(t, accessType))
		})
	}
}

func TestUserRepository_UpsertAndFind(t *testing.T) {
	forEachAccessType(t, func(t *testing.T, repos repoSet) {
		ctx := context.Background()

		_, err := repos.users.FindByID(ctx, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, &customerrors.ErrUserNotFound{})

		user := &models.User{ID: 1, Username: "anna", Profile: "Python"}
		require.NoError(t, repos.users.Upsert(ctx, user))

		found, err := repos.users.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "anna", found.Username)
		assert.Equal(t, "Python", found.Profile)

		// Повторный upsert перезаписывает, а не дублирует.
		user.Profile = "Python, Go"
		require.NoError(t, repos.users.Upsert(ctx, user))

		all, err := repos.users.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Python, Go", all[0].Profile)
	})
}

func TestHackathonRepository_InsertAndUpdateByName(t *testing.T) {
	forEachAccessType(t, func(t *testing.T, repos repoSet) {
		ctx := context.Background()

		h := &models.Hackathon{Name: "Alpha", Prizes: "старый приз"}
		require.NoError(t, repos.hackathons.Insert(ctx, h))
		require.NotZero(t, h.ID)

		updated, err := repos.hackathons.UpdateByName(ctx, &models.Hackathon{Name: "Alpha", Prizes: "новый приз"})
		require.NoError(t, err)
		assert.True(t, updated)

		updated, err = repos.hackathons.UpdateByName(ctx, &models.Hackathon{Name: "Nothing"})
		require.NoError(t, err)
		assert.False(t, updated)

		found, err := repos.hackathons.FindByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "новый приз", found.Prizes)

		_, err = repos.hackathons.FindByID(ctx, 999)
		require.Error(t, err)
		assert.ErrorIs(t, err, &customerrors.ErrHackathonNotFound{})
	})
}

func TestHackathonRepository_UnjoinedAndJoinedSplit(t *testing.T) {
	forEachAccessType(t, func(t *testing.T, repos repoSet) {
		ctx := context.Background()

		alpha := &models.Hackathon{Name: "Alpha"}
		beta := &models.Hackathon{Name: "Beta"}
		require.NoError(t, repos.hackathons.Insert(ctx, alpha))
		require.NoError(t, repos.hackathons.Insert(ctx, beta))

		require.NoError(t, repos.participations.Add(ctx, 1, "anna", alpha.ID))
		require.NoError(t, repos.participations.Add(ctx, 2, "boris", alpha.ID))

		unjoined, err := repos.hackathons.FindUnjoined(ctx, 1)
		require.NoError(t, err)
		require.Len(t, unjoined, 1)
		assert.Equal(t, "Beta", unjoined[0].Name)
		assert.Zero(t, unjoined[0].ParticipantCount)

		joined, err := repos.hackathons.FindJoined(ctx, 1)
		require.NoError(t, err)
		require.Len(t, joined, 1)
		assert.Equal(t, "Alpha", joined[0].Name)
		// Счётчик учитывает всё сообщество, не только запрашивающего.
		assert.Equal(t, 2, joined[0].ParticipantCount)
	})
}

func TestParticipationRepository_AddDuplicate(t *testing.T) {
	forEachAccessType(t, func(t *testing.T, repos repoSet) {
		ctx := context.Background()

		alpha := &models.Hackathon{Name: "Alpha"}
		require.NoError(t, repos.hackathons.Insert(ctx, alpha))

		// Пользователь без анкеты: строка users создаётся вместе с участием.
		require.NoError(t, repos.participations.Add(ctx, 1, "anna", alpha.ID))

		err := repos.participations.Add(ctx, 1, "anna", alpha.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, &customerrors.ErrAlreadyParticipating{})

		exists, err := repos.participations.Exists(ctx, 1, alpha.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		participants, err := repos.participations.FindParticipants(ctx, alpha.ID)
		require.NoError(t, err)
		require.Len(t, participants, 1)
		assert.Equal(t, "anna", participants[0].Username)
	})
}

func TestHackathonRepository_DeleteAllCascades(t *testing.T) {
	forEachAccessType(t, func(t *testing.T, repos repoSet) {
		ctx := context.Background()

		alpha := &models.Hackathon{Name: "Alpha"}
		require.NoError(t, repos.hackathons.Insert(ctx, alpha))
		require.NoError(t, repos.participations.Add(ctx, 1, "anna", alpha.ID))

		require.NoError(t, repos.hackathons.DeleteAll(ctx))

		all, err := repos.hackathons.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		exists, err := repos.participations.Exists(ctx, 1, alpha.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		// Идентификаторы выдаются заново с единицы.
		fresh := &models.Hackathon{Name: "Beta"}
		require.NoError(t, repos.hackathons.Insert(ctx, fresh))
		assert.Equal(t, alpha.ID, fresh.ID)
	})
}
