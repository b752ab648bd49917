package session

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Cleaner периодически вычищает заброшенные сессии, чтобы карта не росла
// бесконечно на долгоживущем процессе.
type Cleaner struct {
	scheduler *gocron.Scheduler
	store     *Store
	ttl       time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

func NewCleaner(store *Store, ttl, interval time.Duration, logger *slog.Logger) *Cleaner {
	scheduler := gocron.NewScheduler(time.UTC)

	return &Cleaner{
		scheduler: scheduler,
		store:     store,
		ttl:       ttl,
		interval:  interval,
		logger:    logger,
	}
}

func (c *Cleaner) Start() {
	c.logger.Info("Запуск очистки сессий",
		"interval", c.interval.String(),
		"ttl", c.ttl.String(),
	)

	_, err := c.scheduler.Every(c.interval).Do(func() {
		evicted := c.store.EvictIdle(c.ttl)
		if evicted > 0 {
			c.logger.Info("Удалены неактивные сессии",
				"evicted", evicted,
				"remaining", c.store.Len(),
			)
		}
	})

	if err != nil {
		c.logger.Error("Ошибка при настройке очистки сессий",
			"error", err,
		)

		return
	}

	c.scheduler.StartAsync()
}

func (c *Cleaner) Stop() {
	c.logger.Info("Остановка очистки сессий")
	c.scheduler.Stop()
}
