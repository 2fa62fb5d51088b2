package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/metrics"
)

// settingsResolver is the consumer interface for resolved settings (ISP).
type settingsResolver interface {
	Resolve(ctx context.Context) (domain.Settings, error)
}

// Embedder is an embedding provider using the OpenAI-compatible v1 API of an Azure OpenAI resource.
// The underlying client is built on first use from resolved settings and reused afterwards.
type Embedder struct {
	settings   settingsResolver
	provider   string
	user       string
	httpClient *http.Client
	logger     *zap.Logger

	mu     sync.Mutex
	client *openai.Client
	model  openai.EmbeddingModel
}

// Config holds the embedding provider settings.
type Config struct {
	Settings   settingsResolver
	Provider   string
	User       string
	HTTPClient *http.Client // optional
	Logger     *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	return &Embedder{
		settings:   cfg.Settings,
		provider:   cfg.Provider,
		user:       cfg.User,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
}

// BaseURL returns the OpenAI v1 base URL for a resource endpoint.
func BaseURL(endpoint string) string {
	if strings.HasSuffix(endpoint, "/") {
		return endpoint + "openai/v1/"
	}
	return endpoint + "/openai/v1/"
}

func (e *Embedder) getClient(ctx context.Context) (*openai.Client, openai.EmbeddingModel, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return e.client, e.model, nil
	}

	s, err := e.settings.Resolve(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("embedding client: %w", err)
	}

	clientCfg := openai.DefaultConfig(s.OpenAIAPIKey)
	clientCfg.BaseURL = BaseURL(s.OpenAIEndpoint)
	if e.httpClient != nil {
		clientCfg.HTTPClient = e.httpClient
	}

	e.client = openai.NewClientWithConfig(clientCfg)
	e.model = openai.EmbeddingModel(s.EmbeddingsDeployment)

	e.logger.Info("Embedding client created",
		zap.String("base_url", clientCfg.BaseURL),
		zap.String("model", s.EmbeddingsDeployment),
	)

	return e.client, e.model, nil
}

// Embed returns the vector and usage with transport-level metrics.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	client, model, err := e.getClient(ctx)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}

	start := time.Now()

	resp, err := client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, string(model), "api_error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, string(model), "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, string(model)).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	promptTokens := resp.Usage.PromptTokens
	if totalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, string(model), "prompt").Add(float64(promptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, string(model), "total").Add(float64(totalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	client, _, err := e.getClient(ctx)
	if err != nil {
		return err
	}
	if _, err := client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEmbeddingProviderError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrEmbeddingProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
