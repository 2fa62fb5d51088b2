// Package azsearch is a minimal Azure AI Search REST client for hybrid semantic queries.
package azsearch

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/search/request"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
	"github.com/kailas-cloud/docchat/internal/metrics"
	"github.com/kailas-cloud/docchat/internal/version"
)

// DefaultAPIVersion is the search REST API version used when none is configured.
// It is a preview version because GA versions reject queryLanguage.
const DefaultAPIVersion = "2024-05-01-preview"

const moduleName = "docchat/azsearch"

// settingsResolver is the consumer interface for resolved settings (ISP).
type settingsResolver interface {
	Resolve(ctx context.Context) (domain.Settings, error)
}

// Config holds the search client settings.
type Config struct {
	Settings   settingsResolver
	APIVersion string
	Transport  policy.Transporter // optional
	Logger     *zap.Logger
}

// Client queries one search index. The HTTP pipeline is built on first use
// from resolved settings and reused afterwards.
type Client struct {
	settings   settingsResolver
	apiVersion string
	transport  policy.Transporter
	logger     *zap.Logger

	mu   sync.Mutex
	conn *connection
}

type connection struct {
	pipeline   runtime.Pipeline
	searchURL  string
	index      string
	apiVersion string
}

// New creates a search client.
func New(cfg *Config) *Client {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Client{
		settings:   cfg.Settings,
		apiVersion: apiVersion,
		transport:  cfg.Transport,
		logger:     cfg.Logger,
	}
}

// apiKeyPolicy authenticates every request with the admin or query key.
type apiKeyPolicy struct {
	key string
}

func (p *apiKeyPolicy) Do(req *policy.Request) (*http.Response, error) {
	req.Raw().Header.Set("api-key", p.key)
	return req.Next()
}

func (c *Client) getConnection(ctx context.Context) (*connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	s, err := c.settings.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("search client: %w", err)
	}

	pl := runtime.NewPipeline(moduleName, version.Version,
		runtime.PipelineOptions{PerCall: []policy.Policy{&apiKeyPolicy{key: s.SearchAPIKey}}},
		&policy.ClientOptions{
			Retry:     policy.RetryOptions{MaxRetries: -1},
			Transport: c.transport,
		},
	)

	c.conn = &connection{
		pipeline:   pl,
		searchURL:  SearchURL(s.SearchEndpoint, s.SearchIndex),
		index:      s.SearchIndex,
		apiVersion: c.apiVersion,
	}

	c.logger.Info("Search client created",
		zap.String("endpoint", s.SearchEndpoint),
		zap.String("index", s.SearchIndex),
		zap.String("api_version", c.apiVersion),
	)

	return c.conn, nil
}

// SearchURL returns the POST search URL for an index.
func SearchURL(endpoint, index string) string {
	return strings.TrimRight(endpoint, "/") + "/indexes/" + url.PathEscape(index) + "/docs/search.post.search"
}

// Search runs a hybrid query and yields hits in backend order, fetching further pages on demand.
// Documents that are not JSON objects are skipped. On failure a single error is yielded.
func (c *Client) Search(ctx context.Context, req request.Request) iter.Seq2[result.Hit, error] {
	return func(yield func(result.Hit, error) bool) {
		conn, err := c.getConnection(ctx)
		if err != nil {
			yield(result.Hit{}, err)
			return
		}

		start := time.Now()
		status := "success"
		defer func() {
			metrics.SearchRequestsTotal.WithLabelValues(conn.index, status).Inc()
			metrics.SearchRequestDuration.WithLabelValues(conn.index).Observe(time.Since(start).Seconds())
		}()

		body := toSearchRequest(&req, strings.HasSuffix(conn.apiVersion, "-preview"))
		pager := runtime.NewPager(runtime.PagingHandler[searchPage]{
			More: func(p searchPage) bool { return p.hasNext() },
			Fetcher: func(ctx context.Context, prev *searchPage) (searchPage, error) {
				if prev == nil {
					return conn.post(ctx, body)
				}
				return conn.post(ctx, prev.NextPageParameters)
			},
		})

		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				status = "error"
				yield(result.Hit{}, err)
				return
			}
			for _, raw := range page.Value {
				hit, ok := decodeHit(raw)
				if !ok {
					continue
				}
				if !yield(hit, nil) {
					return
				}
			}
		}
	}
}

func (c *connection) post(ctx context.Context, body any) (searchPage, error) {
	req, err := runtime.NewRequest(ctx, http.MethodPost, c.searchURL)
	if err != nil {
		return searchPage{}, fmt.Errorf("build search request: %w", err)
	}
	q := req.Raw().URL.Query()
	q.Set("api-version", c.apiVersion)
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Accept", "application/json")

	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return searchPage{}, fmt.Errorf("encode search request: %w", err)
	}

	resp, err := c.pipeline.Do(req)
	if err != nil {
		return searchPage{}, fmt.Errorf("%w: %w", domain.ErrSearchProviderError, err)
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return searchPage{}, fmt.Errorf("%w: %w", domain.ErrSearchProviderError, runtime.NewResponseError(resp))
	}

	var page searchPage
	if err := runtime.UnmarshalAsJSON(resp, &page); err != nil {
		return searchPage{}, fmt.Errorf("%w: decode search response: %w", domain.ErrSearchProviderError, err)
	}
	return page, nil
}
