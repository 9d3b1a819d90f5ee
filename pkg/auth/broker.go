package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"

	errUtils "github.com/mediaops/amsctl/errors"
	"github.com/mediaops/amsctl/pkg/environment"
	log "github.com/mediaops/amsctl/pkg/logger"
	"github.com/mediaops/amsctl/pkg/mediaservices"
	"github.com/mediaops/amsctl/pkg/registry"
	"github.com/mediaops/amsctl/pkg/secrets"
)

const (
	// deviceCodeTimeout bounds how long the device-code prompt waits for the
	// user to complete sign-in.
	deviceCodeTimeout = 15 * time.Minute

	// delegatedTenant is the tenant alias used for delegated sign-in; any
	// work or school account can authenticate against it.
	delegatedTenant = "organizations"
)

// Broker executes the acquisition strategies. ConnectAndGetClient is the
// surface the login session uses; the per-strategy entry points are exposed
// for flows that need the raw token (e.g. subscription browsing before an
// entry exists).
type Broker struct {
	cipher secrets.Cipher
	prompt PromptPolicy
}

// NewBroker creates a broker. The cipher decrypts stored service principal
// secrets and encrypts newly imported ones.
func NewBroker(cipher secrets.Cipher, prompt PromptPolicy) *Broker {
	if prompt == "" {
		prompt = PromptAuto
	}
	return &Broker{cipher: cipher, prompt: prompt}
}

// InteractiveDelegatedLogin runs the delegated device-code sign-in flow
// against the environment's authority. Under PromptAuto a cached session is
// reused silently when the provider has one.
func (b *Broker) InteractiveDelegatedLogin(ctx context.Context, env environment.Descriptor, prompt PromptPolicy) (*Result, error) {
	client, err := public.New(env.ClientApplicationID, public.WithAuthority(env.Authority(delegatedTenant)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create identity provider client: %w", errUtils.ErrAuthenticationFailed, err)
	}

	scopes := []string{env.Scope()}

	if prompt == PromptAuto {
		if result, ok := b.acquireSilent(ctx, client, scopes); ok {
			return result, nil
		}
	}

	if !isTTY() {
		return nil, fmt.Errorf("%w: delegated sign-in requires an interactive terminal; use a service principal entry in headless environments", errUtils.ErrAuthenticationFailed)
	}

	authCtx, cancel := context.WithTimeout(ctx, deviceCodeTimeout)
	defer cancel()

	deviceCode, err := client.AcquireTokenByDeviceCode(authCtx, scopes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start device code flow: %w", errUtils.ErrAuthenticationFailed, err)
	}

	displayDeviceCodePrompt(deviceCode.Result.UserCode, deviceCode.Result.VerificationURL)

	result, err := deviceCode.AuthenticationResult(authCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("%w: %w", errUtils.ErrAuthenticationFailed, errUtils.ErrAuthenticationCancelled)
		}
		return nil, fmt.Errorf("%w: device code authentication failed: %w", errUtils.ErrAuthenticationFailed, err)
	}

	log.Debug("Delegated sign-in successful",
		"user", result.Account.PreferredUsername,
		"expiresOn", result.ExpiresOn)

	return &Result{
		AccessToken: result.AccessToken,
		ExpiresOn:   result.ExpiresOn,
		UserName:    result.Account.PreferredUsername,
	}, nil
}

// acquireSilent tries to reuse a cached session. Failure only means the
// device-code flow runs.
func (b *Broker) acquireSilent(ctx context.Context, client public.Client, scopes []string) (*Result, bool) {
	accounts, err := client.Accounts(ctx)
	if err != nil || len(accounts) == 0 {
		return nil, false
	}

	log.Debug("Found cached account, attempting silent token acquisition",
		"account", accounts[0].PreferredUsername)

	result, err := client.AcquireTokenSilent(ctx, scopes, public.WithSilentAccount(accounts[0]))
	if err != nil {
		log.Debug("Silent token acquisition failed, falling back to device code flow", "error", err)
		return nil, false
	}

	return &Result{
		AccessToken: result.AccessToken,
		ExpiresOn:   result.ExpiresOn,
		UserName:    result.Account.PreferredUsername,
	}, true
}

// ServicePrincipalLogin acquires a token with the client-credential grant.
// It never prompts; the token is acquired eagerly so invalid credentials
// fail here rather than on the first management call.
func (b *Broker) ServicePrincipalLogin(ctx context.Context, env environment.Descriptor, tenantID, clientID, secret string) (*Result, error) {
	if tenantID == "" || clientID == "" || secret == "" {
		return nil, fmt.Errorf("%w: service principal login requires tenant id, client id and secret", errUtils.ErrAuthenticationFailed)
	}

	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, secret, &azidentity.ClientSecretCredentialOptions{
		ClientOptions: azcore.ClientOptions{Cloud: env.Cloud()},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create service principal credential: %w", errUtils.ErrAuthenticationFailed, err)
	}

	token, err := cred.GetToken(ctx, tokenRequest(env))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUtils.ErrAuthenticationFailed, err)
	}

	log.Debug("Service principal sign-in successful",
		"tenant", tenantID,
		"client", clientID,
		"expiresOn", token.ExpiresOn)

	return &Result{
		AccessToken: token.Token,
		ExpiresOn:   token.ExpiresOn,
		credential:  cred,
	}, nil
}

// ConnectAndGetClient dispatches on the entry's auth mode, builds a
// management-plane client bound to the obtained token and the entry's
// environment, and returns it with the possibly updated entry. Secrets may
// be rotated on the returned entry; nothing is persisted here.
func (b *Broker) ConnectAndGetClient(ctx context.Context, entry registry.Entry) (MediaClient, registry.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, registry.Entry{}, err
	}

	updated := entry.Clone()

	var result *Result
	switch entry.AuthMode {
	case registry.AuthModeInteractive:
		res, err := b.InteractiveDelegatedLogin(ctx, entry.Environment, b.prompt)
		if err != nil {
			return nil, registry.Entry{}, err
		}
		result = res

	case registry.AuthModeServicePrincipal:
		secret, err := b.servicePrincipalSecret(updated.ServicePrincipal)
		if err != nil {
			return nil, registry.Entry{}, err
		}
		res, err := b.ServicePrincipalLogin(ctx, entry.Environment,
			updated.ServicePrincipal.TenantID, updated.ServicePrincipal.ClientID, secret)
		if err != nil {
			return nil, registry.Entry{}, err
		}
		result = res

	default:
		return nil, registry.Entry{}, fmt.Errorf("%w: unknown auth mode %q", errUtils.ErrInvalidEntry, entry.AuthMode)
	}

	client, err := mediaservices.NewClient(result.TokenCredential(), &arm.ClientOptions{
		ClientOptions: azcore.ClientOptions{Cloud: entry.Environment.Cloud()},
	})
	if err != nil {
		return nil, registry.Entry{}, fmt.Errorf("%w: failed to create management client: %w", errUtils.ErrAuthenticationFailed, err)
	}

	return client, updated, nil
}

// servicePrincipalSecret resolves the clear secret for a login and keeps the
// encrypted form on the entry current. A freshly imported entry carries only
// the clear secret; encrypting it here is what makes it persistable.
func (b *Broker) servicePrincipalSecret(sp *registry.ServicePrincipal) (string, error) {
	if sp.ClearSecret != "" {
		enc, err := b.cipher.Encrypt(sp.ClearSecret)
		if err != nil {
			return "", fmt.Errorf("%w: %w", errUtils.ErrAuthenticationFailed, err)
		}
		sp.EncryptedSecret = enc
		return sp.ClearSecret, nil
	}
	if sp.EncryptedSecret == "" {
		return "", fmt.Errorf("%w: entry has no service principal secret", errUtils.ErrAuthenticationFailed)
	}
	secret, err := b.cipher.Decrypt(sp.EncryptedSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errUtils.ErrAuthenticationFailed, err)
	}
	return secret, nil
}

// RefreshDependentMetadata queries the account for its storage associations
// and writes them into the entry. A failure here does not invalidate the
// connected client handle.
func (b *Broker) RefreshDependentMetadata(ctx context.Context, client MediaClient, entry *registry.Entry) error {
	account, err := client.GetAccount(ctx, entry.SubscriptionID, entry.ResourceGroup, entry.AccountName)
	if err != nil {
		return fmt.Errorf("%w: %w", errUtils.ErrMetadataRefreshFailed, err)
	}

	storage := make([]registry.StorageAccount, 0, len(account.Properties.StorageAccounts))
	for _, sa := range account.Properties.StorageAccounts {
		storage = append(storage, registry.StorageAccount{ID: sa.ID, Type: sa.Type})
	}
	entry.StorageAccounts = storage

	log.Debug("Refreshed storage accounts",
		"account", entry.AccountName,
		"count", len(storage))
	return nil
}
