package clients

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"tad/internal/models"
	"tad/internal/providers"
	"tad/internal/structures"

	"github.com/failsafe-go/failsafe-go"
	json "github.com/goccy/go-json"
)

// AnalyzerInterface turns a raw batch into a structured trend summary.
type AnalyzerInterface interface {
	Analyze(ctx context.Context, records []models.RawMetricRecord) (*models.AnalysisResult, error)
}

type Analyzer struct {
	baseURL  string
	client   *http.Client
	executor failsafe.Executor[*http.Response]
	logger   providers.Logger
}

func NewAnalyzer(conf *structures.Config, logger providers.Logger) AnalyzerInterface {
	return &Analyzer{
		baseURL:  conf.Analyzer.BaseURL,
		client:   &http.Client{Timeout: conf.Analyzer.Timeout},
		executor: NewHTTPExecutor(conf.Retry),
		logger:   logger,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, records []models.RawMetricRecord) (*models.AnalysisResult, error) {
	body, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("analyzer request encode failed: %w", err)
	}
	url := a.baseURL + "/api/v1/analyze"

	resp, err := doWithRetry(ctx, a.executor, a.client, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("analyzer request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "analyzer"); err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("analyzer response decode failed: %w", err)
	}

	a.logger.Debugf(providers.TypeRun, "Analyzer summarized %d entities", len(result.Entities))
	return &result, nil
}
