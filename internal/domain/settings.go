package domain

import (
	"fmt"
	"strings"
)

// Setting keys. Secret-store names are derived from them with SecretName.
const (
	KeySearchEndpoint        = "AZURE_SEARCH_ENDPOINT"
	KeySearchIndex           = "AZURE_SEARCH_INDEX"
	KeySearchAPIKey          = "AZURE_SEARCH_API_KEY"
	KeySemanticConfiguration = "AZURE_SEARCH_SEMANTIC_SEARCH_CONFIGURATION"
	KeyOpenAIEndpoint        = "AZURE_OPENAI_ENDPOINT"
	KeyOpenAIAPIKey          = "AZURE_OPENAI_API_KEY"
	KeyEmbeddingsDeployment  = "AZURE_OPENAI_EMBEDDINGS_DEPLOYMENT"
)

// DefaultSearchIndex is used when no index name is configured.
const DefaultSearchIndex = "hoisington-index"

var settingKeys = []string{
	KeySearchEndpoint,
	KeySearchIndex,
	KeySearchAPIKey,
	KeySemanticConfiguration,
	KeyOpenAIEndpoint,
	KeyOpenAIAPIKey,
	KeyEmbeddingsDeployment,
}

var requiredKeys = []string{
	KeySearchEndpoint,
	KeySearchAPIKey,
	KeyOpenAIEndpoint,
	KeyOpenAIAPIKey,
	KeyEmbeddingsDeployment,
}

// Settings is the flat search configuration shared by the embedding and search clients.
// Values are copied by value, so a resolved Settings is an immutable snapshot.
type Settings struct {
	SearchEndpoint        string
	SearchIndex           string
	SearchAPIKey          string
	SemanticConfiguration string
	OpenAIEndpoint        string
	OpenAIAPIKey          string
	EmbeddingsDeployment  string
}

// SettingKeys returns all setting keys in a stable order.
func SettingKeys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// SecretName maps a setting key to its secret-store name: "DB_HOST" -> "DB-HOST".
func SecretName(key string) string {
	return strings.ReplaceAll(strings.ToUpper(key), "_", "-")
}

func (s *Settings) field(key string) *string {
	switch key {
	case KeySearchEndpoint:
		return &s.SearchEndpoint
	case KeySearchIndex:
		return &s.SearchIndex
	case KeySearchAPIKey:
		return &s.SearchAPIKey
	case KeySemanticConfiguration:
		return &s.SemanticConfiguration
	case KeyOpenAIEndpoint:
		return &s.OpenAIEndpoint
	case KeyOpenAIAPIKey:
		return &s.OpenAIAPIKey
	case KeyEmbeddingsDeployment:
		return &s.EmbeddingsDeployment
	default:
		return nil
	}
}

// Get returns the value stored under key. ok is false for unknown keys.
func (s Settings) Get(key string) (string, bool) {
	f := s.field(key)
	if f == nil {
		return "", false
	}
	return *f, true
}

// Set overwrites the value stored under key. Returns false for unknown keys.
func (s *Settings) Set(key, value string) bool {
	f := s.field(key)
	if f == nil {
		return false
	}
	*f = value
	return true
}

// ApplyDefaults fills the index and semantic configuration names when empty.
func (s *Settings) ApplyDefaults() {
	if s.SearchIndex == "" {
		s.SearchIndex = DefaultSearchIndex
	}
	if s.SemanticConfiguration == "" {
		s.SemanticConfiguration = s.SearchIndex + "-semantic-configuration"
	}
}

// Validate reports every required key that is still empty.
func (s Settings) Validate() error {
	var missing []string
	for _, k := range requiredKeys {
		if v, _ := s.Get(k); strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}
	return nil
}
