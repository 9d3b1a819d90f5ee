// Package environment describes the identity-provider and management-plane
// configuration a credential entry authenticates against. Descriptors are
// immutable values; every entry owns its own copy.
package environment

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"

	errUtils "github.com/mediaops/amsctl/errors"
)

// DefaultClientApplicationID is the Azure CLI public client application.
// Delegated sign-in uses it unless the descriptor overrides it.
const DefaultClientApplicationID = "04b07795-8ddb-461a-bbee-02f9e1bf7b46"

// Kind distinguishes the built-in environments from descriptors constructed
// out of imported JSON.
type Kind string

const (
	KindWellKnown Kind = "wellKnown"
	KindCustom    Kind = "custom"
)

// Well-known environment names.
const (
	AzureGlobal       = "AzureGlobal"
	AzureChina        = "AzureChina"
	AzureUSGovernment = "AzureUSGovernment"
	AzureGermany      = "AzureGermany"
)

// Descriptor holds everything needed for an authentication attempt against
// one cloud environment.
type Descriptor struct {
	Kind                Kind   `json:"kind"`
	Name                string `json:"name,omitempty"`
	AuthorityURL        string `json:"authorityUrl"`
	ManagementEndpoint  string `json:"managementEndpoint"`
	TokenAudience       string `json:"tokenAudience"`
	ClientApplicationID string `json:"clientApplicationId"`
}

var wellKnown = map[string]Descriptor{
	AzureGlobal: {
		Kind:                KindWellKnown,
		Name:                AzureGlobal,
		AuthorityURL:        "https://login.microsoftonline.com",
		ManagementEndpoint:  "https://management.azure.com/",
		TokenAudience:       "https://management.core.windows.net/",
		ClientApplicationID: DefaultClientApplicationID,
	},
	AzureChina: {
		Kind:                KindWellKnown,
		Name:                AzureChina,
		AuthorityURL:        "https://login.chinacloudapi.cn",
		ManagementEndpoint:  "https://management.chinacloudapi.cn/",
		TokenAudience:       "https://management.core.chinacloudapi.cn/",
		ClientApplicationID: DefaultClientApplicationID,
	},
	AzureUSGovernment: {
		Kind:                KindWellKnown,
		Name:                AzureUSGovernment,
		AuthorityURL:        "https://login.microsoftonline.us",
		ManagementEndpoint:  "https://management.usgovcloudapi.net/",
		TokenAudience:       "https://management.core.usgovcloudapi.net/",
		ClientApplicationID: DefaultClientApplicationID,
	},
	AzureGermany: {
		Kind:                KindWellKnown,
		Name:                AzureGermany,
		AuthorityURL:        "https://login.microsoftonline.de",
		ManagementEndpoint:  "https://management.microsoftazure.de/",
		TokenAudience:       "https://management.core.cloudapi.de/",
		ClientApplicationID: DefaultClientApplicationID,
	},
}

// WellKnown returns the built-in descriptor for the given environment name.
func WellKnown(name string) (Descriptor, error) {
	d, ok := wellKnown[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: unknown environment %q", errUtils.ErrInvalidEnvironment, name)
	}
	return d, nil
}

// WellKnownNames returns the names of all built-in environments.
func WellKnownNames() []string {
	return []string{AzureGlobal, AzureChina, AzureUSGovernment, AzureGermany}
}

// Custom builds a descriptor from imported endpoints. An empty client
// application id falls back to the default public client.
func Custom(authorityURL, managementEndpoint, tokenAudience, clientApplicationID string) Descriptor {
	if clientApplicationID == "" {
		clientApplicationID = DefaultClientApplicationID
	}
	return Descriptor{
		Kind:                KindCustom,
		AuthorityURL:        authorityURL,
		ManagementEndpoint:  managementEndpoint,
		TokenAudience:       tokenAudience,
		ClientApplicationID: clientApplicationID,
	}
}

// Validate checks that the descriptor carries everything an authentication
// attempt needs.
func (d Descriptor) Validate() error {
	switch {
	case d.Kind != KindWellKnown && d.Kind != KindCustom:
		return fmt.Errorf("%w: unknown kind %q", errUtils.ErrInvalidEnvironment, d.Kind)
	case d.AuthorityURL == "":
		return fmt.Errorf("%w: authority URL is required", errUtils.ErrInvalidEnvironment)
	case d.ManagementEndpoint == "":
		return fmt.Errorf("%w: management endpoint is required", errUtils.ErrInvalidEnvironment)
	case d.TokenAudience == "":
		return fmt.Errorf("%w: token audience is required", errUtils.ErrInvalidEnvironment)
	case d.ClientApplicationID == "":
		return fmt.Errorf("%w: client application id is required", errUtils.ErrInvalidEnvironment)
	}
	return nil
}

// Authority returns the full authority URL for the given tenant. The tenant
// may be a directory id or an alias such as "organizations".
func (d Descriptor) Authority(tenant string) string {
	return strings.TrimSuffix(d.AuthorityURL, "/") + "/" + tenant
}

// Scope returns the OAuth2 scope requesting the management-plane audience.
func (d Descriptor) Scope() string {
	return strings.TrimSuffix(d.TokenAudience, "/") + "/.default"
}

// Cloud converts the descriptor into the azcore cloud configuration consumed
// by SDK clients.
func (d Descriptor) Cloud() cloud.Configuration {
	return cloud.Configuration{
		ActiveDirectoryAuthorityHost: strings.TrimSuffix(d.AuthorityURL, "/"),
		Services: map[cloud.ServiceName]cloud.ServiceConfiguration{
			cloud.ResourceManager: {
				Audience: strings.TrimSuffix(d.TokenAudience, "/"),
				Endpoint: strings.TrimSuffix(d.ManagementEndpoint, "/"),
			},
		},
	}
}
