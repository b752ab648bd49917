package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "hackmate"

	BotSubsystem      = "bot"
	ImporterSubsystem = "importer"
)

// Бот метрики.
var (
	UserMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "user_messages_total",
			Help:      "Total number of user messages processed",
		},
		[]string{"message_type"},
	)

	CallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "callbacks_total",
			Help:      "Total number of callback queries processed",
		},
		[]string{"action"},
	)

	HandlerFaultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "handler_faults_total",
			Help:      "Total number of handler errors converted into apology replies",
		},
	)

	AnnouncementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "announcements_sent_total",
			Help:      "Total number of hackathon announcements delivered to users",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "active_sessions",
			Help:      "Number of in-memory dialogue sessions",
		},
	)
)

// Метрики импортёра.
var (
	ImportedHackathonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: ImporterSubsystem,
			Name:      "imported_hackathons_total",
			Help:      "Total number of hackathon rows imported",
		},
		[]string{"policy", "status"},
	)

	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: ImporterSubsystem,
			Name:      "import_duration_seconds",
			Help:      "CSV import duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"policy"},
	)
)

func RecordUserMessage(messageType string) {
	UserMessagesTotal.WithLabelValues(messageType).Inc()
}

func RecordCallback(action string) {
	CallbacksTotal.WithLabelValues(action).Inc()
}

func RecordHandlerFault() {
	HandlerFaultsTotal.Inc()
}

func RecordAnnouncement() {
	AnnouncementsTotal.Inc()
}

func SetActiveSessions(count int) {
	ActiveSessions.Set(float64(count))
}

func RecordImportedHackathon(policy, status string) {
	ImportedHackathonsTotal.WithLabelValues(policy, status).Inc()
}

func RecordImportDuration(policy string, duration time.Duration) {
	ImportDuration.WithLabelValues(policy).Observe(duration.Seconds())
}
