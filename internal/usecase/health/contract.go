package health

import "context"

// SettingsChecker reports whether search settings resolve.
type SettingsChecker interface {
	HealthCheck(ctx context.Context) error
}

// DBPinger checks secret-store database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
