package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("query is required")
	// ErrMissingSetting signals a required setting that is still empty after resolution.
	ErrMissingSetting = errors.New("missing required setting")
	// ErrSecretStore signals that the secret store could not be created or read.
	ErrSecretStore = errors.New("secret store error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrSearchProviderError signals a search service failure.
	ErrSearchProviderError = errors.New("search provider error")
)
