package repository

import (
	"log/slog"

	"github.com/hack-community/hackmate/internal/bot/repository/orm"
	sqlrepo "github.com/hack-community/hackmate/internal/bot/repository/sql"
	"github.com/hack-community/hackmate/internal/bot/service"
	"github.com/hack-community/hackmate/internal/config"
	"github.com/hack-community/hackmate/internal/database"
	"github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/importer"
	"github.com/hack-community/hackmate/internal/infrastructure/repositories/memory"
	"github.com/hack-community/hackmate/pkg/txs"
)

// Factory создаёт репозитории согласно DATABASE_ACCESS_TYPE. Все три
// варианта (SQL, Squirrel, память) реализуют одни и те же интерфейсы
// сервисного слоя.
type Factory struct {
	db          *database.PostgresDB
	config      *config.Config
	txManager   *txs.TxManager
	memoryStore *memory.Store
	logger      *slog.Logger
}

func NewFactory(db *database.PostgresDB, cfg *config.Config, txManager *txs.TxManager, logger *slog.Logger) *Factory {
	f := &Factory{
		db:        db,
		config:    cfg,
		txManager: txManager,
		logger:    logger,
	}

	if cfg.DatabaseAccessType == config.MemoryAccess {
		f.memoryStore = memory.NewStore()
	}

	return f
}

func (f *Factory) CreateUserRepository() (service.UserRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория пользователей")
		return orm.NewUserRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория пользователей")
		return sqlrepo.NewUserRepository(f.db), nil
	case config.MemoryAccess:
		f.logger.Info("Создание in-memory репозитория пользователей")
		return memory.NewUserRepository(f.memoryStore), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}

func (f *Factory) CreateHackathonRepository() (service.HackathonRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория хакатонов")
		return orm.NewHackathonRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория хакатонов")
		return sqlrepo.NewHackathonRepository(f.db), nil
	case config.MemoryAccess:
		f.logger.Info("Создание in-memory репозитория хакатонов")
		return memory.NewHackathonRepository(f.memoryStore), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}

// CreateImportRepository отдаёт хранилище хакатонов со стороны записи,
// нужное импортёру.
func (f *Factory) CreateImportRepository() (importer.HackathonRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		return orm.NewHackathonRepository(f.db), nil
	case config.SQLAccess:
		return sqlrepo.NewHackathonRepository(f.db), nil
	case config.MemoryAccess:
		return memory.NewHackathonRepository(f.memoryStore), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}

func (f *Factory) CreateParticipationRepository() (service.ParticipationRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория регистраций")
		return orm.NewParticipationRepository(f.db, f.txManager), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория регистраций")
		return sqlrepo.NewParticipationRepository(f.db), nil
	case config.MemoryAccess:
		f.logger.Info("Создание in-memory репозитория регистраций")
		return memory.NewParticipationRepository(f.memoryStore), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}
