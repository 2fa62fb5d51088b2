package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates settings cannot be resolved, so no query can run.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as Report.Checks keys.
const (
	ComponentSettings    = "settings"
	ComponentSecretStore = "secret_store"
	ComponentEmbedding   = "embedding"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	settings  SettingsChecker
	db        DBPinger
	embedding EmbeddingChecker
}

// New creates a Service. db and embedding can be nil.
func New(settings SettingsChecker, db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{settings: settings, db: db, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[ComponentSettings] = result(s.settings.HealthCheck(ctx))

	if s.db != nil {
		checks[ComponentSecretStore] = result(s.db.Ping(ctx))
	}

	// Without settings the embedding client cannot be built.
	if s.embedding != nil && checks[ComponentSettings] == CheckOK {
		checks[ComponentEmbedding] = result(s.embedding.HealthCheck(ctx))
	}

	status := Healthy
	if checks[ComponentSettings] == CheckError {
		status = Unhealthy
	} else {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
