package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hack-community/hackmate/internal/bot/repository"
	"github.com/hack-community/hackmate/internal/common/httputil"
	"github.com/hack-community/hackmate/internal/config"
	"github.com/hack-community/hackmate/internal/database"
	"github.com/hack-community/hackmate/internal/importer"
	"github.com/hack-community/hackmate/internal/importer/notify"
	"github.com/hack-community/hackmate/pkg"
	"github.com/hack-community/hackmate/pkg/txs"
)

func main() {
	var (
		file   string
		policy string
	)

	rootCmd := &cobra.Command{
		Use:   "importer",
		Short: "Импорт справочника хакатонов из CSV",
		Long: `Загружает таблицу хакатонов в базу бота. Источником может быть
локальный файл или HTTP(S)-ссылка. Политика upsert обновляет совпадающие
по названию записи, replace очищает справочник и загружает его заново.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), file, importer.Policy(policy))
		},
	}

	rootCmd.Flags().StringVar(&file, "file", "", "путь к CSV-файлу или URL")
	rootCmd.Flags().StringVar(&policy, "policy", string(importer.PolicyUpsert), "политика импорта: upsert или replace")

	_ = rootCmd.MarkFlagRequired("file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка импорта: %v\n", err)
		os.Exit(1)
	}
}

func runImport(ctx context.Context, file string, policy importer.Policy) error {
	appLogger := pkg.NewLogger(os.Stdout)

	cfg := config.LoadConfig()

	db, err := database.NewPostgresDB(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	txManager := txs.NewTxManager(db.Pool, appLogger)

	repoFactory := repository.NewFactory(db, cfg, txManager, appLogger)

	hackathonRepo, err := repoFactory.CreateImportRepository()
	if err != nil {
		return fmt.Errorf("ошибка создания репозитория хакатонов: %w", err)
	}

	notifier, err := notify.NewNotifierFactory(cfg, appLogger).CreateNotifier()
	if err != nil {
		return fmt.Errorf("ошибка создания нотификатора: %w", err)
	}

	defer func() {
		if err := notifier.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии нотификатора",
				"error", err,
			)
		}
	}()

	httpClient := httputil.NewResilientClient(cfg, appLogger, "importer")

	source, err := importer.OpenSource(ctx, httpClient, file)
	if err != nil {
		return err
	}

	service := importer.NewService(hackathonRepo, notifier, appLogger)

	summary, err := service.Import(ctx, source, policy)
	if summary != nil {
		fmt.Printf("Импорт завершён: добавлено %d, обновлено %d, с ошибками %d\n",
			summary.Inserted, summary.Updated, summary.Failed)
	}

	return err
}
