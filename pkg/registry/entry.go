// Package registry holds the ordered collection of Media Services account
// credential entries and its persistence/redaction rules.
package registry

import (
	"fmt"
	"strings"

	errUtils "github.com/mediaops/amsctl/errors"
	"github.com/mediaops/amsctl/pkg/environment"
)

// AuthMode selects the acquisition strategy for an entry.
type AuthMode string

const (
	// AuthModeInteractive is delegated user sign-in via the device-code flow.
	AuthModeInteractive AuthMode = "interactive"
	// AuthModeServicePrincipal is non-interactive client-credential sign-in.
	AuthModeServicePrincipal AuthMode = "servicePrincipal"
)

// ResourceProvider is the ARM provider segment for Media Services accounts.
const ResourceProvider = "Microsoft.Media/mediaservices"

// StorageAccount is a storage account associated with a Media Services
// account, cached on the entry after a successful login.
type StorageAccount struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// ServicePrincipal carries the fields that only exist in service principal
// mode. ClearSecret is transient: the json:"-" tag keeps it out of every
// serialized form, persisted or exported.
type ServicePrincipal struct {
	TenantID        string `json:"tenantId"`
	ClientID        string `json:"clientId"`
	ClearSecret     string `json:"-"`
	EncryptedSecret string `json:"encryptedSecret,omitempty"`
}

// Entry is one persisted account record: the target Media Services instance,
// its environment, and the chosen auth mode with mode-specific fields.
type Entry struct {
	Description      string                  `json:"description,omitempty"`
	ResourceID       string                  `json:"resourceId"`
	AccountName      string                  `json:"accountName"`
	Location         string                  `json:"location,omitempty"`
	ResourceGroup    string                  `json:"resourceGroup,omitempty"`
	SubscriptionID   string                  `json:"subscriptionId,omitempty"`
	Environment      environment.Descriptor  `json:"environment"`
	AuthMode         AuthMode                `json:"authMode"`
	ServicePrincipal *ServicePrincipal       `json:"servicePrincipal,omitempty"`
	StorageAccounts  []StorageAccount        `json:"storageAccounts,omitempty"`
}

// ParseResourceID splits an ARM Media Services resource id into its
// subscription, resource group and account name segments.
func ParseResourceID(resourceID string) (subscriptionID, resourceGroup, accountName string, err error) {
	segments := strings.Split(strings.Trim(resourceID, "/"), "/")
	// subscriptions/{sub}/resourceGroups/{rg}/providers/Microsoft.Media/mediaservices/{name}
	if len(segments) != 8 ||
		!strings.EqualFold(segments[0], "subscriptions") ||
		!strings.EqualFold(segments[2], "resourceGroups") ||
		!strings.EqualFold(segments[4], "providers") ||
		!strings.EqualFold(segments[5]+"/"+segments[6], ResourceProvider) {
		return "", "", "", fmt.Errorf("%w: not a Media Services resource id: %q", errUtils.ErrMalformedInput, resourceID)
	}
	return segments[1], segments[3], segments[7], nil
}

// NewEntry builds an entry from a resource id string, deriving the
// subscription, resource group and account name from it.
func NewEntry(resourceID, location string, env environment.Descriptor, mode AuthMode, sp *ServicePrincipal) (Entry, error) {
	subscriptionID, resourceGroup, accountName, err := ParseResourceID(resourceID)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		ResourceID:       resourceID,
		AccountName:      accountName,
		Location:         location,
		ResourceGroup:    resourceGroup,
		SubscriptionID:   subscriptionID,
		Environment:      env,
		AuthMode:         mode,
		ServicePrincipal: sp,
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate enforces the entry invariant: service principal fields are
// populated exactly when the auth mode says so.
func (e Entry) Validate() error {
	if e.ResourceID == "" || e.AccountName == "" {
		return fmt.Errorf("%w: resource id and account name are required", errUtils.ErrInvalidEntry)
	}
	if err := e.Environment.Validate(); err != nil {
		return err
	}
	switch e.AuthMode {
	case AuthModeInteractive:
		if e.ServicePrincipal != nil {
			return fmt.Errorf("%w: interactive entry must not carry service principal fields", errUtils.ErrInvalidEntry)
		}
	case AuthModeServicePrincipal:
		if e.ServicePrincipal == nil {
			return fmt.Errorf("%w: service principal entry is missing its credentials", errUtils.ErrInvalidEntry)
		}
		if e.ServicePrincipal.TenantID == "" {
			return fmt.Errorf("%w: service principal entry requires a tenant id", errUtils.ErrInvalidEntry)
		}
		if e.ServicePrincipal.ClientID == "" {
			return fmt.Errorf("%w: service principal entry requires a client id", errUtils.ErrInvalidEntry)
		}
	default:
		return fmt.Errorf("%w: unknown auth mode %q", errUtils.ErrInvalidEntry, e.AuthMode)
	}
	return nil
}

// Clone returns a deep copy of the entry. Entries own their environment and
// service principal fields, so copies never share mutable state.
func (e Entry) Clone() Entry {
	out := e
	if e.ServicePrincipal != nil {
		sp := *e.ServicePrincipal
		out.ServicePrincipal = &sp
	}
	if e.StorageAccounts != nil {
		out.StorageAccounts = make([]StorageAccount, len(e.StorageAccounts))
		copy(out.StorageAccounts, e.StorageAccounts)
	}
	return out
}
