package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/hack-community/hackmate/internal/config"
	"github.com/hack-community/hackmate/internal/domain/errors"
)

// NewResilientClient собирает resty-клиент с повторами по сетевым ошибкам
// и ретраибельным статусам, плюс circuit breaker поверх транспорта.
// Используется импортёром для загрузки CSV по HTTP.
func NewResilientClient(cfg *config.Config, logger *slog.Logger, serviceName string) *resty.Client {
	client := resty.New()

	client.SetTimeout(cfg.ExternalRequestTimeout)

	client.SetRetryCount(cfg.RetryCount)
	client.SetRetryWaitTime(cfg.RetryBackoff)
	client.SetRetryMaxWaitTime(cfg.RetryBackoff * 5)

	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}

		for _, status := range cfg.RetryableStatusCodes {
			if r.StatusCode() == status {
				return true
			}
		}

		return false
	})

	settings := gobreaker.Settings{
		Name:        serviceName + "_circuit_breaker",
		MaxRequests: uint32(cfg.CBPermittedCallsInHalfOpen), //nolint:gosec // G115: Значение из конфига
		Interval:    time.Duration(cfg.CBSlidingWindowSize) * time.Second,
		Timeout:     cfg.CBWaitDurationInOpenState,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= uint32(cfg.CBMinimumRequiredCalls) && //nolint:gosec // G115: Значение из конфига
				failureRatio >= float64(cfg.CBFailureRateThreshold)/100.0
		},
	}

	client.SetTransport(&breakerTransport{
		breaker:     gobreaker.NewCircuitBreaker(settings),
		next:        http.DefaultTransport,
		logger:      logger,
		serviceName: serviceName,
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.Request.Attempt > 1 {
			logger.Info("Повторная попытка HTTP-запроса",
				"service", serviceName,
				"url", resp.Request.URL,
				"attempt", resp.Request.Attempt,
				"status", resp.StatusCode(),
			)
		}

		return nil
	})

	return client
}

type breakerTransport struct {
	breaker     *gobreaker.CircuitBreaker
	next        http.RoundTripper
	logger      *slog.Logger
	serviceName string
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		// Ответы 5xx считаются отказами и копятся в статистике брейкера.
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, &errors.HTTPError{StatusCode: resp.StatusCode}
		}

		return resp, nil
	})

	if err != nil {
		if err == gobreaker.ErrOpenState {
			t.logger.Warn("Circuit breaker открыт",
				"service", t.serviceName,
				"url", req.URL.String(),
			)
		}

		return nil, err
	}

	return result.(*http.Response), nil
}
