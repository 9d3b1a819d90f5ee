// Package auth executes the credential acquisition strategies and turns a
// stored entry into a connected management-plane client.
package auth

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/mediaops/amsctl/pkg/environment"
	"github.com/mediaops/amsctl/pkg/mediaservices"
)

// PromptPolicy selects whether delegated sign-in may silently reuse a cached
// session or must force the user through the account picker.
type PromptPolicy string

const (
	// PromptAuto reuses a cached session when the identity provider has one.
	PromptAuto PromptPolicy = "auto"
	// PromptSelectAccount skips the token cache and always runs the
	// device-code flow so the user can pick an account.
	PromptSelectAccount PromptPolicy = "selectAccount"
)

// MediaClient is the management-plane surface the login flow consumes.
// *mediaservices.Client implements it.
type MediaClient interface {
	GetAccount(ctx context.Context, subscriptionID, resourceGroup, accountName string) (mediaservices.Account, error)
}

var _ MediaClient = (*mediaservices.Client)(nil)

// Subscription is one subscription reachable with an obtained token.
type Subscription struct {
	ID          string
	DisplayName string
}

// Result is the outcome of a successful token acquisition.
type Result struct {
	AccessToken string
	ExpiresOn   time.Time
	// UserName is the signed-in user for delegated logins, empty for
	// service principals.
	UserName string

	credential azcore.TokenCredential
}

// TokenCredential returns an azcore credential for the acquired token. For
// service principals this is the refreshing azidentity credential; for
// delegated logins it wraps the bearer token obtained from the prompt.
func (r *Result) TokenCredential() azcore.TokenCredential {
	if r.credential != nil {
		return r.credential
	}
	return StaticTokenCredential{Token: r.AccessToken, ExpiresOn: r.ExpiresOn}
}

// StaticTokenCredential adapts an already-obtained bearer token to the
// azcore.TokenCredential interface.
type StaticTokenCredential struct {
	Token     string
	ExpiresOn time.Time
}

// GetToken returns the wrapped token regardless of the requested scopes.
func (c StaticTokenCredential) GetToken(_ context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: c.Token, ExpiresOn: c.ExpiresOn}, nil
}

// tokenRequest builds the token request for the environment's management
// audience.
func tokenRequest(env environment.Descriptor) policy.TokenRequestOptions {
	return policy.TokenRequestOptions{Scopes: []string{env.Scope()}}
}
