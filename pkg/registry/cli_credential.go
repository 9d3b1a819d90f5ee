package registry

import (
	"encoding/json"
	"fmt"

	errUtils "github.com/mediaops/amsctl/errors"
	"github.com/mediaops/amsctl/pkg/environment"
)

// CLICredential is the JSON emitted by `az ams account sp create`. Keys are
// case-sensitive and all fields are required.
type CLICredential struct {
	AadClientID    string
	AadEndpoint    string
	AadSecret      string
	AadTenantID    string
	AccountName    string
	ArmAadAudience string
	ArmEndpoint    string
	Region         string
	ResourceGroup  string
	SubscriptionID string
}

// cliCredentialKeys maps the exact JSON keys to setters. Go's json package
// matches field names case-insensitively, which would silently accept keys
// the CLI never produces, so the keys are checked by hand.
var cliCredentialKeys = []string{
	"AadClientId",
	"AadEndpoint",
	"AadSecret",
	"AadTenantId",
	"AccountName",
	"ArmAadAudience",
	"ArmEndpoint",
	"Region",
	"ResourceGroup",
	"SubscriptionId",
}

// ParseCLICredential parses the CLI JSON document, requiring every key to be
// present as a non-empty string with its exact casing.
func ParseCLICredential(data []byte) (CLICredential, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return CLICredential{}, fmt.Errorf("%w: %w", errUtils.ErrMalformedInput, err)
	}

	values := make(map[string]string, len(cliCredentialKeys))
	for _, key := range cliCredentialKeys {
		msg, ok := raw[key]
		if !ok {
			return CLICredential{}, fmt.Errorf("%w: missing required field %q", errUtils.ErrMalformedInput, key)
		}
		var value string
		if err := json.Unmarshal(msg, &value); err != nil {
			return CLICredential{}, fmt.Errorf("%w: field %q must be a string", errUtils.ErrMalformedInput, key)
		}
		if value == "" {
			return CLICredential{}, fmt.Errorf("%w: field %q must not be empty", errUtils.ErrMalformedInput, key)
		}
		values[key] = value
	}

	return CLICredential{
		AadClientID:    values["AadClientId"],
		AadEndpoint:    values["AadEndpoint"],
		AadSecret:      values["AadSecret"],
		AadTenantID:    values["AadTenantId"],
		AccountName:    values["AccountName"],
		ArmAadAudience: values["ArmAadAudience"],
		ArmEndpoint:    values["ArmEndpoint"],
		Region:         values["Region"],
		ResourceGroup:  values["ResourceGroup"],
		SubscriptionID: values["SubscriptionId"],
	}, nil
}

// ResourceID synthesizes the ARM resource id for the account the credential
// points at.
func (c CLICredential) ResourceID() string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s",
		c.SubscriptionID, c.ResourceGroup, ResourceProvider, c.AccountName)
}

// Entry converts the CLI credential into a service principal entry with a
// custom environment built from the imported endpoints. The secret stays in
// the transient ClearSecret field; the caller encrypts it before persisting.
func (c CLICredential) Entry() (Entry, error) {
	env := environment.Custom(c.AadEndpoint, c.ArmEndpoint, c.ArmAadAudience, "")
	sp := &ServicePrincipal{
		TenantID:    c.AadTenantID,
		ClientID:    c.AadClientID,
		ClearSecret: c.AadSecret,
	}
	return NewEntry(c.ResourceID(), c.Region, env, AuthModeServicePrincipal, sp)
}
