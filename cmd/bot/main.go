package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hack-community/hackmate/internal/bot/cache"
	"github.com/hack-community/hackmate/internal/bot/clients"
	"github.com/hack-community/hackmate/internal/bot/clients/kafka"
	"github.com/hack-community/hackmate/internal/bot/repository"
	botservice "github.com/hack-community/hackmate/internal/bot/service"
	"github.com/hack-community/hackmate/internal/bot/session"
	"github.com/hack-community/hackmate/internal/bot/telegram"
	"github.com/hack-community/hackmate/internal/common/metrics"
	"github.com/hack-community/hackmate/internal/common/middleware"
	"github.com/hack-community/hackmate/internal/config"
	"github.com/hack-community/hackmate/internal/database"
	"github.com/hack-community/hackmate/pkg"
	"github.com/hack-community/hackmate/pkg/txs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка запуска сервиса: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen,cyclop // Длина функции обусловлена последовательной инициализацией всех компонентов.
func run() error {
	appLogger := pkg.NewLogger(os.Stdout)

	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		db        *database.PostgresDB
		txManager *txs.TxManager
	)

	if cfg.DatabaseAccessType != config.MemoryAccess {
		var err error

		db, err = database.NewPostgresDB(ctx, cfg, appLogger)
		if err != nil {
			return fmt.Errorf("ошибка подключения к базе данных: %w", err)
		}

		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			return fmt.Errorf("ошибка применения миграций: %w", err)
		}

		txManager = txs.NewTxManager(db.Pool, appLogger)
	}

	repoFactory := repository.NewFactory(db, cfg, txManager, appLogger)

	userRepo, err := repoFactory.CreateUserRepository()
	if err != nil {
		return fmt.Errorf("ошибка создания репозитория пользователей: %w", err)
	}

	hackathonRepo, err := repoFactory.CreateHackathonRepository()
	if err != nil {
		return fmt.Errorf("ошибка создания репозитория хакатонов: %w", err)
	}

	participationRepo, err := repoFactory.CreateParticipationRepository()
	if err != nil {
		return fmt.Errorf("ошибка создания репозитория регистраций: %w", err)
	}

	sessionStore := session.NewStore()

	sessionCleaner := session.NewCleaner(sessionStore, cfg.SessionTTL, cfg.SessionCleanupInterval, appLogger)
	sessionCleaner.Start()

	defer sessionCleaner.Stop()

	telegramClient, err := clients.NewTelegramClient(cfg.TelegramBotToken, appLogger)
	if err != nil {
		return fmt.Errorf("ошибка создания Telegram клиента: %w", err)
	}

	setupTelegramCommands(ctx, telegramClient, appLogger)

	profileService := botservice.NewProfileService(userRepo, sessionStore)
	hackathonService := botservice.NewHackathonService(hackathonRepo, participationRepo, sessionStore, appLogger)
	participantService := botservice.NewParticipantService(participationRepo, sessionStore)

	dispatcher := botservice.NewBotService(
		profileService,
		hackathonService,
		participantService,
		userRepo,
		sessionStore,
		telegramClient,
		cfg.CommunityInviteLink,
		appLogger,
	)

	var redisCache *cache.RedisHackathonCache

	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisHackathonCache(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, cfg.RedisCacheTTL, appLogger)
		if err != nil {
			appLogger.Error("Ошибка при подключении к Redis",
				"error", err,
			)
		} else {
			appLogger.Info("Кэш Redis успешно инициализирован")

			hackathonService.WithCache(redisCache)
			dispatcher.WithCache(redisCache)
		}
	}

	var kafkaConsumer *kafka.Consumer

	if strings.EqualFold(cfg.AnnounceTransport, "KAFKA") {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		kafkaConsumer = kafka.NewConsumer(
			brokers,
			"hackmate-bot",
			cfg.TopicHackathonEvents,
			cfg.TopicDeadLetterQueue,
			dispatcher,
			appLogger,
		)

		kafkaConsumer.Start(ctx)
		appLogger.Info("Kafka консьюмер успешно запущен")
	}

	limiter := middleware.NewUserRateLimiter(ctx, cfg.RateLimitRequests, cfg.RateLimitWindow)

	poller := telegram.NewPoller(telegramClient, dispatcher, limiter, cfg.HandlerTimeout, appLogger)
	poller.Start()

	metricsServer := metrics.NewServer("hackmate-bot", cfg.MetricsPort, appLogger)

	go func() {
		if err := metricsServer.Start(ctx); err != nil {
			appLogger.Error("Ошибка сервера метрик",
				"error", err,
			)
		}
	}()

	waitForShutdown(appLogger)

	poller.Stop()
	cancel()

	if kafkaConsumer != nil {
		if err := kafkaConsumer.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии Kafka консьюмера",
				"error", err,
			)
		}
	}

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии соединения с Redis",
				"error", err,
			)
		}
	}

	appLogger.Info("Бот успешно остановлен")

	return nil
}

func setupTelegramCommands(ctx context.Context, telegramClient *clients.TelegramClient, appLogger *slog.Logger) {
	botCommands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Начать работу с ботом"},
	}

	if err := telegramClient.SetMyCommands(ctx, botCommands); err != nil {
		appLogger.Error("Ошибка при регистрации команд бота",
			"error", err,
		)
	} else {
		appLogger.Info("Команды бота успешно зарегистрированы")
	}
}

func waitForShutdown(appLogger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	appLogger.Info("Получен системный сигнал",
		"signal", sig.String(),
	)
}
