// Package keyvault reads docchat settings overrides from Azure Key Vault.
package keyvault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// ErrVaultNameNotSet is returned when no usable vault name is configured.
var ErrVaultNameNotSet = errors.New("key vault name not set")

// unsetVaultName is the placeholder deployments use for "no vault".
const unsetVaultName = "not-set"

type secretClient interface {
	GetSecret(
		ctx context.Context, name, version string, options *azsecrets.GetSecretOptions,
	) (azsecrets.GetSecretResponse, error)
}

// Store is a Key Vault backed secret store.
type Store struct {
	client   secretClient
	vaultURL string
	logger   *zap.Logger
}

// VaultURL returns the data-plane URL for a vault name.
func VaultURL(name string) string {
	return "https://" + name + ".vault.azure.net"
}

// New creates a Store authenticated with DefaultAzureCredential.
func New(vaultName string, logger *zap.Logger) (*Store, error) {
	name := strings.TrimSpace(vaultName)
	if name == "" || name == unsetVaultName {
		return nil, fmt.Errorf("%w: %q", ErrVaultNameNotSet, vaultName)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	url := VaultURL(name)
	client, err := azsecrets.NewClient(url, cred, &azsecrets.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: -1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("key vault client %s: %w", url, err)
	}

	return newStore(client, url, logger), nil
}

func newStore(client secretClient, vaultURL string, logger *zap.Logger) *Store {
	return &Store{client: client, vaultURL: vaultURL, logger: logger}
}

// GetMany reads the latest version of each named secret.
// Secrets the vault does not hold (404) or that carry no value are left out.
func (s *Store) GetMany(ctx context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		resp, err := s.client.GetSecret(ctx, name, "", nil)
		if err != nil {
			if isNotFound(err) {
				s.logger.Debug("Secret not defined", zap.String("vault", s.vaultURL), zap.String("secret", name))
				continue
			}
			return nil, fmt.Errorf("get secret %s from %s: %w", name, s.vaultURL, err)
		}
		if resp.Value == nil {
			continue
		}
		out[name] = *resp.Value
	}
	return out, nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
