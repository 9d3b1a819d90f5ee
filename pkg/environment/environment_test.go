package environment

import (
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/stretchr/testify/assert"

	errUtils "github.com/mediaops/amsctl/errors"
)

func TestWellKnown(t *testing.T) {
	for _, name := range WellKnownNames() {
		d, err := WellKnown(name)
		assert.NoError(t, err)
		assert.Equal(t, KindWellKnown, d.Kind)
		assert.Equal(t, name, d.Name)
		assert.NoError(t, d.Validate())
	}
}

func TestWellKnownUnknownName(t *testing.T) {
	_, err := WellKnown("AzureMoon")
	assert.ErrorIs(t, err, errUtils.ErrInvalidEnvironment)
}

func TestCustomDefaultsClientApplicationID(t *testing.T) {
	d := Custom("https://login.example.com", "https://arm.example.com/", "https://audience.example.com/", "")
	assert.Equal(t, KindCustom, d.Kind)
	assert.Empty(t, d.Name)
	assert.Equal(t, DefaultClientApplicationID, d.ClientApplicationID)
	assert.NoError(t, d.Validate())
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
	}{
		{"bad kind", Descriptor{Kind: "nope", AuthorityURL: "a", ManagementEndpoint: "b", TokenAudience: "c", ClientApplicationID: "d"}},
		{"no authority", Descriptor{Kind: KindCustom, ManagementEndpoint: "b", TokenAudience: "c", ClientApplicationID: "d"}},
		{"no management endpoint", Descriptor{Kind: KindCustom, AuthorityURL: "a", TokenAudience: "c", ClientApplicationID: "d"}},
		{"no audience", Descriptor{Kind: KindCustom, AuthorityURL: "a", ManagementEndpoint: "b", ClientApplicationID: "d"}},
		{"no client id", Descriptor{Kind: KindCustom, AuthorityURL: "a", ManagementEndpoint: "b", TokenAudience: "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.d.Validate(), errUtils.ErrInvalidEnvironment)
		})
	}
}

func TestAuthorityAndScope(t *testing.T) {
	d, err := WellKnown(AzureGlobal)
	assert.NoError(t, err)
	assert.Equal(t, "https://login.microsoftonline.com/organizations", d.Authority("organizations"))
	assert.Equal(t, "https://management.core.windows.net/.default", d.Scope())
}

func TestCloudConfiguration(t *testing.T) {
	d, err := WellKnown(AzureChina)
	assert.NoError(t, err)

	cfg := d.Cloud()
	assert.Equal(t, "https://login.chinacloudapi.cn", cfg.ActiveDirectoryAuthorityHost)

	rm, ok := cfg.Services[cloud.ResourceManager]
	assert.True(t, ok)
	assert.Equal(t, "https://management.chinacloudapi.cn", rm.Endpoint)
	assert.Equal(t, "https://management.core.chinacloudapi.cn", rm.Audience)
}
