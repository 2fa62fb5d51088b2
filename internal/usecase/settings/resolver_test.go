package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// --- Mocks ---

type mockStore struct {
	mu     sync.Mutex
	values map[string]string
	err    error
	calls  int
	names  []string
}

func (m *mockStore) GetMany(_ context.Context, names []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.names = names
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]string)
	for _, n := range names {
		if v, ok := m.values[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

type countingFactory struct {
	mu    sync.Mutex
	store *mockStore
	err   error
	calls int
}

func (f *countingFactory) build(_ context.Context) (SecretStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.store, nil
}

func baseSettings() domain.Settings {
	return domain.Settings{
		SearchEndpoint:       "https://file.search.example.net",
		SearchAPIKey:         "file-search-key",
		OpenAIEndpoint:       "https://file.oai.example.net",
		OpenAIAPIKey:         "file-oai-key",
		EmbeddingsDeployment: "text-embedding-3-small",
	}
}

// --- Tests ---

func TestResolve_NoStore(t *testing.T) {
	r := New(baseSettings(), "none", nil, zap.NewNop())

	s, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.SearchEndpoint != "https://file.search.example.net" {
		t.Errorf("SearchEndpoint = %q", s.SearchEndpoint)
	}
	if s.SearchIndex != domain.DefaultSearchIndex {
		t.Errorf("defaults not applied: %q", s.SearchIndex)
	}
	if len(r.Overrides()) != 0 {
		t.Errorf("expected no overrides, got %v", r.Overrides())
	}
}

func TestResolve_OverridesFromStore(t *testing.T) {
	store := &mockStore{values: map[string]string{
		"AZURE-SEARCH-ENDPOINT":                      "https://vault.search.example.net",
		"AZURE-OPENAI-API-KEY":                       "vault-oai-key",
		"AZURE-SEARCH-SEMANTIC-SEARCH-CONFIGURATION": "vault-semantic",
		"UNRELATED-SECRET":                           "ignored",
	}}
	f := &countingFactory{store: store}
	r := New(baseSettings(), "test", f.build, zap.NewNop())

	s, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.SearchEndpoint != "https://vault.search.example.net" {
		t.Errorf("SearchEndpoint = %q", s.SearchEndpoint)
	}
	if s.OpenAIAPIKey != "vault-oai-key" {
		t.Errorf("OpenAIAPIKey = %q", s.OpenAIAPIKey)
	}
	if s.SemanticConfiguration != "vault-semantic" {
		t.Errorf("SemanticConfiguration = %q", s.SemanticConfiguration)
	}
	if s.SearchAPIKey != "file-search-key" {
		t.Errorf("keys without secret should keep file value, got %q", s.SearchAPIKey)
	}

	if len(store.names) != len(domain.SettingKeys()) {
		t.Fatalf("expected one batched fetch of %d names, got %v", len(domain.SettingKeys()), store.names)
	}
	for _, n := range store.names {
		for _, c := range n {
			if c == '_' {
				t.Errorf("secret name %q still contains underscores", n)
			}
		}
	}

	got := r.Overrides()
	want := []string{
		domain.KeyOpenAIAPIKey,
		domain.KeySearchEndpoint,
		domain.KeySemanticConfiguration,
	}
	if len(got) != len(want) {
		t.Fatalf("Overrides() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Overrides()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolve_CachedAfterFirstCall(t *testing.T) {
	store := &mockStore{values: map[string]string{"AZURE-SEARCH-API-KEY": "v1"}}
	f := &countingFactory{store: store}
	r := New(baseSettings(), "test", f.build, zap.NewNop())

	first, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A later change in the store must not leak into the cached settings.
	store.values["AZURE-SEARCH-API-KEY"] = "v2"

	second, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second || second.SearchAPIKey != "v1" {
		t.Errorf("settings changed between calls: %+v vs %+v", first, second)
	}
	if f.calls != 1 || store.calls != 1 {
		t.Errorf("expected store built and read once, got factory=%d reads=%d", f.calls, store.calls)
	}
}

func TestResolve_FactoryError(t *testing.T) {
	f := &countingFactory{err: errors.New("AZURE_KEY_VAULT_NAME not set")}
	r := New(baseSettings(), "azure-key-vault", f.build, zap.NewNop())

	_, err := r.Resolve(context.Background())
	if !errors.Is(err, domain.ErrSecretStore) {
		t.Fatalf("expected ErrSecretStore, got %v", err)
	}

	// Failures are not cached: the next call retries construction.
	_, _ = r.Resolve(context.Background())
	if f.calls != 2 {
		t.Errorf("expected 2 factory calls, got %d", f.calls)
	}
}

func TestResolve_FetchError(t *testing.T) {
	store := &mockStore{err: errors.New("forbidden")}
	r := New(baseSettings(), "test", (&countingFactory{store: store}).build, zap.NewNop())

	_, err := r.Resolve(context.Background())
	if !errors.Is(err, domain.ErrSecretStore) {
		t.Fatalf("expected ErrSecretStore, got %v", err)
	}
}

func TestResolve_MissingRequired(t *testing.T) {
	base := baseSettings()
	base.OpenAIAPIKey = ""
	r := New(base, "none", nil, zap.NewNop())

	_, err := r.Resolve(context.Background())
	if !errors.Is(err, domain.ErrMissingSetting) {
		t.Fatalf("expected ErrMissingSetting, got %v", err)
	}
}

func TestResolve_SecretFillsMissingRequired(t *testing.T) {
	base := baseSettings()
	base.OpenAIAPIKey = ""
	store := &mockStore{values: map[string]string{"AZURE-OPENAI-API-KEY": "from-vault"}}
	r := New(base, "test", (&countingFactory{store: store}).build, zap.NewNop())

	s, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.OpenAIAPIKey != "from-vault" {
		t.Errorf("OpenAIAPIKey = %q", s.OpenAIAPIKey)
	}
}

func TestResolve_ConcurrentFirstCalls(t *testing.T) {
	store := &mockStore{values: map[string]string{"AZURE-SEARCH-INDEX": "concurrent-index"}}
	f := &countingFactory{store: store}
	r := New(baseSettings(), "test", f.build, zap.NewNop())

	const n = 16
	var wg sync.WaitGroup
	results := make([]domain.Settings, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Resolve(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range n {
		if errs[i] != nil {
			t.Fatalf("call %d: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("call %d observed different settings", i)
		}
	}
	if f.calls != 1 {
		t.Errorf("expected a single store construction, got %d", f.calls)
	}
	if results[0].SemanticConfiguration != "concurrent-index-semantic-configuration" {
		t.Errorf("SemanticConfiguration = %q", results[0].SemanticConfiguration)
	}
}

func TestHealthCheck(t *testing.T) {
	ok := New(baseSettings(), "none", nil, zap.NewNop())
	if err := ok.HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := New(domain.Settings{}, "none", nil, zap.NewNop())
	if err := bad.HealthCheck(context.Background()); err == nil {
		t.Error("expected error for empty settings")
	}
}
