package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/config"
	"github.com/kailas-cloud/docchat/internal/domain"
	searchuc "github.com/kailas-cloud/docchat/internal/usecase/search"
	settingsuc "github.com/kailas-cloud/docchat/internal/usecase/settings"
)

func testConfig(searchURL, openaiURL string) config.Config {
	cfg := config.Config{
		Search: config.SearchConfig{Endpoint: searchURL, APIKey: "search-key"},
		OpenAI: config.OpenAIConfig{Endpoint: openaiURL, APIKey: "oai-key", EmbeddingsDeployment: "emb"},
		Secrets: config.SecretsConfig{
			Driver:    config.SecretDriverAzureKeyVault,
			VaultName: "kv-test",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestBuildApp_SecretStoreFailureBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	failing := func(context.Context) (settingsuc.SecretStore, error) {
		return nil, errors.New("no credential")
	}

	a, err := buildApp(context.Background(), testConfig(srv.URL, srv.URL), zap.NewNop(), failing)
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}

	_, err = a.search.Run(context.Background(), "What is Azure?", searchuc.Options{})
	if !errors.Is(err, domain.ErrSecretStore) {
		t.Fatalf("expected ErrSecretStore, got %v", err)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("expected no network calls, got %d", n)
	}
}

func TestSecretStoreFactory_Drivers(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	cfg := testConfig("", "")
	cfg.Secrets.Driver = config.SecretDriverNone
	f, store, err := secretStoreFactory(ctx, cfg, log)
	if err != nil || f != nil || store != nil {
		t.Errorf("none: factory=%v store=%v err=%v", f != nil, store, err)
	}

	t.Setenv("AZURE-SEARCH-INDEX", "from-env")
	cfg.Secrets.Driver = config.SecretDriverEnv
	f, _, err = secretStoreFactory(ctx, cfg, log)
	if err != nil || f == nil {
		t.Fatalf("env: factory=%v err=%v", f != nil, err)
	}
	s, err := f(ctx)
	if err != nil {
		t.Fatalf("env store: %v", err)
	}
	got, err := s.GetMany(ctx, []string{"AZURE-SEARCH-INDEX"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if got["AZURE-SEARCH-INDEX"] != "from-env" {
		t.Errorf("unexpected env values %v", got)
	}

	cfg.Secrets.Driver = config.SecretDriverAzureKeyVault
	cfg.Secrets.VaultName = "not-set"
	f, _, err = secretStoreFactory(ctx, cfg, log)
	if err != nil || f == nil {
		t.Fatalf("azure-key-vault: factory=%v err=%v", f != nil, err)
	}
	if _, err := f(ctx); err == nil {
		t.Error("expected construction error for unset vault name")
	}

	cfg.Secrets.Driver = "vault"
	if _, _, err := secretStoreFactory(ctx, cfg, log); err == nil {
		t.Error("expected error for unknown driver")
	}
}

type stubPipeline struct {
	out  string
	err  error
	opts searchuc.Options
}

func (p *stubPipeline) Run(_ context.Context, _ string, opts searchuc.Options) (string, error) {
	p.opts = opts
	return p.out, p.err
}

func TestRunQuery(t *testing.T) {
	p := &stubPipeline{out: `[]`}
	var buf bytes.Buffer
	if err := runQuery(context.Background(), p, "q", searchuc.Options{TitlesOnly: true, TopN: 5}, &buf); err != nil {
		t.Fatalf("runQuery: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("output = %q", buf.String())
	}
	if !p.opts.TitlesOnly || p.opts.TopN != 5 {
		t.Errorf("options not forwarded: %+v", p.opts)
	}

	p.err = domain.ErrEmptyQuery
	if err := runQuery(context.Background(), p, "", searchuc.Options{}, &buf); !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"mcp", "serve", "query"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
	if root.PersistentFlags().Lookup("env") == nil {
		t.Error("missing --env flag")
	}
}
