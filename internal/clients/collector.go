package clients

import (
	"context"
	"fmt"
	"net/http"
	"tad/internal/models"
	"tad/internal/providers"
	"tad/internal/structures"

	"github.com/failsafe-go/failsafe-go"
	json "github.com/goccy/go-json"
)

// CollectorInterface fetches a batch of raw metric records for a lookback
// window from the collection service.
type CollectorInterface interface {
	Collect(ctx context.Context, lookbackHours, maxResults int) ([]models.RawMetricRecord, error)
}

type Collector struct {
	baseURL  string
	client   *http.Client
	executor failsafe.Executor[*http.Response]
	logger   providers.Logger
}

func NewCollector(conf *structures.Config, logger providers.Logger) CollectorInterface {
	return &Collector{
		baseURL:  conf.Collector.BaseURL,
		client:   &http.Client{Timeout: conf.Collector.Timeout},
		executor: NewHTTPExecutor(conf.Retry),
		logger:   logger,
	}
}

func (c *Collector) Collect(ctx context.Context, lookbackHours, maxResults int) ([]models.RawMetricRecord, error) {
	url := fmt.Sprintf("%s/api/v1/videos?hours=%d&max=%d", c.baseURL, lookbackHours, maxResults)

	resp, err := doWithRetry(ctx, c.executor, c.client, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("collector request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "collector"); err != nil {
		return nil, err
	}

	var records []models.RawMetricRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("collector response decode failed: %w", err)
	}

	c.logger.Debugf(providers.TypeRun, "Collector returned %d records for %dh lookback", len(records), lookbackHours)
	return records, nil
}
