package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/mediaops/amsctl/errors"
	"github.com/mediaops/amsctl/pkg/auth"
	"github.com/mediaops/amsctl/pkg/environment"
	"github.com/mediaops/amsctl/pkg/mediaservices"
	"github.com/mediaops/amsctl/pkg/registry"
	"github.com/mediaops/amsctl/pkg/store"
)

type fakeMediaClient struct{}

func (fakeMediaClient) GetAccount(context.Context, string, string, string) (mediaservices.Account, error) {
	return mediaservices.Account{}, nil
}

// fakeBroker scripts the two broker calls the session makes during Login.
type fakeBroker struct {
	connectErr error
	refreshErr error

	// updatedSecret, when set, simulates secret rotation during connect.
	updatedSecret string
	// refreshedStorage, when set, simulates a successful metadata refresh.
	refreshedStorage []registry.StorageAccount
}

func (f *fakeBroker) ConnectAndGetClient(_ context.Context, entry registry.Entry) (auth.MediaClient, registry.Entry, error) {
	if f.connectErr != nil {
		return nil, registry.Entry{}, f.connectErr
	}
	updated := entry.Clone()
	if f.updatedSecret != "" && updated.ServicePrincipal != nil {
		updated.ServicePrincipal.EncryptedSecret = f.updatedSecret
	}
	return fakeMediaClient{}, updated, nil
}

func (f *fakeBroker) RefreshDependentMetadata(_ context.Context, _ auth.MediaClient, entry *registry.Entry) error {
	if f.refreshErr != nil {
		return f.refreshErr
	}
	entry.StorageAccounts = f.refreshedStorage
	return nil
}

type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", fmt.Errorf("unrecognized ciphertext")
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

func testEntry(t *testing.T) registry.Entry {
	t.Helper()
	env, err := environment.WellKnown(environment.AzureGlobal)
	require.NoError(t, err)

	entry, err := registry.NewEntry(
		"/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/rg/providers/Microsoft.Media/mediaservices/acct",
		"westeurope", env, registry.AuthModeServicePrincipal,
		&registry.ServicePrincipal{TenantID: "tenant", ClientID: "client", EncryptedSecret: "enc:old"})
	require.NoError(t, err)
	return entry
}

func newTestSession(t *testing.T, broker Authenticator, entries ...registry.Entry) (*Session, *store.InMemoryStore) {
	t.Helper()
	st := store.NewInMemoryStore()
	s, err := New(st, broker, fakeCipher{})
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, s.Add(e))
	}
	return s, st
}

func TestNewLoadsPersistedRegistry(t *testing.T) {
	s1, st := newTestSession(t, &fakeBroker{}, testEntry(t))

	s2, err := New(st, &fakeBroker{}, fakeCipher{})
	require.NoError(t, err)
	assert.Equal(t, s1.Len(), s2.Len())
	assert.Equal(t, StateIdle, s2.State())
}

func TestLoginOutOfRange(t *testing.T) {
	s, _ := newTestSession(t, &fakeBroker{}, testEntry(t))

	_, _, err := s.Login(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUtils.ErrNoEntrySelected)
}

func TestLoginAuthFailureLeavesRegistryUntouched(t *testing.T) {
	s, st := newTestSession(t, &fakeBroker{
		connectErr: fmt.Errorf("%w: bad credentials", errUtils.ErrAuthenticationFailed),
	}, testEntry(t))

	before, err := st.Load()
	require.NoError(t, err)

	_, _, err = s.Login(context.Background(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUtils.ErrAuthenticationFailed)
	assert.Equal(t, StateFailed, s.State())

	after, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoginPersistsRotatedSecretAndMetadata(t *testing.T) {
	s, st := newTestSession(t, &fakeBroker{
		updatedSecret: "enc:rotated",
		refreshedStorage: []registry.StorageAccount{
			{ID: "/subscriptions/s/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/primary", Type: "Primary"},
		},
	}, testEntry(t))

	client, updated, err := s.Login(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, StateConnected, s.State())
	assert.Equal(t, "enc:rotated", updated.ServicePrincipal.EncryptedSecret)
	require.Len(t, updated.StorageAccounts, 1)

	persisted, err := st.Load()
	require.NoError(t, err)
	assert.Contains(t, string(persisted), "enc:rotated")
	assert.Contains(t, string(persisted), "storageAccounts")
}

func TestLoginMetadataFailureIsSoft(t *testing.T) {
	s, _ := newTestSession(t, &fakeBroker{
		refreshErr: fmt.Errorf("%w: throttled", errUtils.ErrMetadataRefreshFailed),
	}, testEntry(t))

	client, updated, err := s.Login(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, StatePartiallyConnected, s.State())
	assert.Equal(t, "acct", updated.AccountName)
}

func TestAddFromCLICredentialEncryptsSecret(t *testing.T) {
	s, st := newTestSession(t, &fakeBroker{})

	doc := []byte(`{
		"AadClientId": "11111111-1111-1111-1111-111111111111",
		"AadEndpoint": "https://login.microsoftonline.com",
		"AadSecret": "hunter2",
		"AadTenantId": "22222222-2222-2222-2222-222222222222",
		"AccountName": "amsaccount",
		"ArmAadAudience": "https://management.core.windows.net/",
		"ArmEndpoint": "https://management.azure.com/",
		"Region": "West Europe",
		"ResourceGroup": "amsResourceGroup",
		"SubscriptionId": "00000000-0000-0000-0000-000000000000"
	}`)

	entry, err := s.AddFromCLICredential(doc)
	require.NoError(t, err)
	assert.Equal(t, "enc:hunter2", entry.ServicePrincipal.EncryptedSecret)
	assert.Empty(t, entry.ServicePrincipal.ClearSecret)
	assert.Equal(t, 1, s.Len())

	persisted, err := st.Load()
	require.NoError(t, err)
	assert.NotContains(t, string(persisted), "hunter2",
		"clear secret must never be persisted")
	assert.Contains(t, string(persisted), "enc:hunter2")
}

func TestImportMalformedLeavesRegistryUntouched(t *testing.T) {
	s, st := newTestSession(t, &fakeBroker{}, testEntry(t))

	before, err := st.Load()
	require.NoError(t, err)

	err = s.ImportFrom([]byte(`{"mediaServicesAccounts": [{"unknownField": true}]}`), registry.ImportMerge)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUtils.ErrMalformedInput)
	assert.Equal(t, 1, s.Len())

	after, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestImportMergeAndReplace(t *testing.T) {
	s, _ := newTestSession(t, &fakeBroker{}, testEntry(t))

	exported, err := s.ExportAll(registry.ExportWithSecret)
	require.NoError(t, err)

	require.NoError(t, s.ImportFrom(exported, registry.ImportMerge))
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.ImportFrom(exported, registry.ImportReplace))
	assert.Equal(t, 1, s.Len())
}

func TestExportEntryWithoutSecret(t *testing.T) {
	s, _ := newTestSession(t, &fakeBroker{}, testEntry(t))

	data, err := s.ExportEntry(0, registry.ExportWithoutSecret)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "encryptedSecret")
	assert.NotContains(t, string(data), "enc:old")

	_, err = s.ExportEntry(3, registry.ExportWithoutSecret)
	assert.ErrorIs(t, err, errUtils.ErrIndexOutOfRange)
}

func TestRemoveAtPersists(t *testing.T) {
	s, st := newTestSession(t, &fakeBroker{}, testEntry(t))

	require.NoError(t, s.RemoveAt(0))
	assert.Equal(t, 0, s.Len())

	persisted, err := st.Load()
	require.NoError(t, err)
	assert.NotContains(t, string(persisted), "acct")

	err = s.RemoveAt(0)
	assert.ErrorIs(t, err, errUtils.ErrIndexOutOfRange)
}

func TestSetDescription(t *testing.T) {
	s, st := newTestSession(t, &fakeBroker{}, testEntry(t))

	require.NoError(t, s.SetDescription(0, "production account"))

	entry, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, "production account", entry.Description)

	persisted, err := st.Load()
	require.NoError(t, err)
	assert.Contains(t, string(persisted), "production account")
}

func TestLoginRecoversStateAfterFailure(t *testing.T) {
	broker := &fakeBroker{connectErr: errors.New("transient")}
	s, _ := newTestSession(t, broker, testEntry(t))

	_, _, err := s.Login(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, StateFailed, s.State())

	broker.connectErr = nil
	_, _, err = s.Login(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, StateConnected, s.State())
}
