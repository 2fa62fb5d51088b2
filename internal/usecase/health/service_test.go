package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockChecker struct {
	err    error
	called bool
}

func (m *mockChecker) HealthCheck(_ context.Context) error {
	m.called = true
	return m.err
}

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockChecker{}, &mockDBPinger{}, &mockChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, c := range []string{ComponentSettings, ComponentSecretStore, ComponentEmbedding} {
		if r.Checks[c] != CheckOK {
			t.Errorf("expected %s %q, got %q", c, CheckOK, r.Checks[c])
		}
	}
}

func TestCheck_SettingsError(t *testing.T) {
	emb := &mockChecker{}
	svc := New(&mockChecker{err: errors.New("missing key")}, nil, emb)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks[ComponentSettings] != CheckError {
		t.Errorf("expected settings %q, got %q", CheckError, r.Checks[ComponentSettings])
	}
	if emb.called {
		t.Error("embedding check must be skipped without settings")
	}
	if _, ok := r.Checks[ComponentEmbedding]; ok {
		t.Error("embedding check should be absent")
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockChecker{}, &mockDBPinger{err: errors.New("conn refused")}, &mockChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentSecretStore] != CheckError {
		t.Errorf("expected secret_store %q, got %q", CheckError, r.Checks[ComponentSecretStore])
	}
	if r.Checks[ComponentEmbedding] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks[ComponentEmbedding])
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(&mockChecker{}, nil, &mockChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentEmbedding] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks[ComponentEmbedding])
	}
	if _, ok := r.Checks[ComponentSecretStore]; ok {
		t.Error("secret_store check should be absent when db is nil")
	}
}

func TestCheck_SettingsOnly(t *testing.T) {
	svc := New(&mockChecker{}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected only the settings check, got %v", r.Checks)
	}
}
