package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/mediaops/amsctl/errors"
	"github.com/mediaops/amsctl/pkg/environment"
)

func testEntry(t *testing.T, account string) Entry {
	t.Helper()
	env, err := environment.WellKnown(environment.AzureGlobal)
	require.NoError(t, err)
	e, err := NewEntry(
		"/subscriptions/00000000-0000-0000-0000-000000000001/resourceGroups/media-rg/providers/Microsoft.Media/mediaservices/"+account,
		"West Europe", env, AuthModeInteractive, nil)
	require.NoError(t, err)
	return e
}

func testSPEntry(t *testing.T, account, secret string) Entry {
	t.Helper()
	env, err := environment.WellKnown(environment.AzureGlobal)
	require.NoError(t, err)
	e, err := NewEntry(
		"/subscriptions/00000000-0000-0000-0000-000000000002/resourceGroups/media-rg/providers/Microsoft.Media/mediaservices/"+account,
		"East US", env, AuthModeServicePrincipal, &ServicePrincipal{
			TenantID:        "tenant-1",
			ClientID:        "client-1",
			ClearSecret:     secret,
			EncryptedSecret: "enc:" + secret,
		})
	require.NoError(t, err)
	return e
}

func TestParseResourceID(t *testing.T) {
	sub, rg, name, err := ParseResourceID("/subscriptions/sub-1/resourceGroups/rg-1/providers/Microsoft.Media/mediaservices/acct")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub)
	assert.Equal(t, "rg-1", rg)
	assert.Equal(t, "acct", name)
}

func TestParseResourceIDRejectsOtherProviders(t *testing.T) {
	tests := []string{
		"",
		"not a resource id",
		"/subscriptions/s/resourceGroups/g/providers/Microsoft.Storage/storageAccounts/x",
		"/subscriptions/s/resourceGroups/g/providers/Microsoft.Media/mediaservices",
	}
	for _, id := range tests {
		_, _, _, err := ParseResourceID(id)
		assert.ErrorIs(t, err, errUtils.ErrMalformedInput, id)
	}
}

func TestEntryValidateModeInvariant(t *testing.T) {
	interactive := testEntry(t, "acct")
	interactive.ServicePrincipal = &ServicePrincipal{TenantID: "t", ClientID: "c"}
	assert.ErrorIs(t, interactive.Validate(), errUtils.ErrInvalidEntry)

	sp := testSPEntry(t, "acct", "s")
	sp.ServicePrincipal = nil
	assert.ErrorIs(t, sp.Validate(), errUtils.ErrInvalidEntry)

	sp = testSPEntry(t, "acct", "s")
	sp.ServicePrincipal.TenantID = ""
	assert.ErrorIs(t, sp.Validate(), errUtils.ErrInvalidEntry)
}

func TestAddAndAt(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(testEntry(t, "one")))
	require.NoError(t, r.Add(testEntry(t, "two")))
	assert.Equal(t, 2, r.Len())

	e, err := r.At(1)
	require.NoError(t, err)
	assert.Equal(t, "two", e.AccountName)

	_, err = r.At(2)
	assert.ErrorIs(t, err, errUtils.ErrIndexOutOfRange)
	_, err = r.At(-1)
	assert.ErrorIs(t, err, errUtils.ErrIndexOutOfRange)
}

func TestDuplicateEntriesPermitted(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(testEntry(t, "same")))
	require.NoError(t, r.Add(testEntry(t, "same")))
	assert.Equal(t, 2, r.Len())
}

func TestRemoveAtOutOfRangeLeavesRegistryUnmodified(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(testEntry(t, "one")))

	before, err := r.Serialize(PersistAll)
	require.NoError(t, err)

	assert.ErrorIs(t, r.RemoveAt(5), errUtils.ErrIndexOutOfRange)
	assert.ErrorIs(t, r.RemoveAt(-1), errUtils.ErrIndexOutOfRange)

	after, err := r.Serialize(PersistAll)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemoveAt(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(testEntry(t, "one")))
	require.NoError(t, r.Add(testEntry(t, "two")))
	require.NoError(t, r.Add(testEntry(t, "three")))

	require.NoError(t, r.RemoveAt(1))
	assert.Equal(t, 2, r.Len())

	names := []string{}
	for _, e := range r.Entries() {
		names = append(names, e.AccountName)
	}
	assert.Equal(t, []string{"one", "three"}, names)
}

func TestReplaceAt(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(testEntry(t, "one")))

	updated := testEntry(t, "one")
	updated.Description = "after login"
	require.NoError(t, r.ReplaceAt(0, updated))

	e, err := r.At(0)
	require.NoError(t, err)
	assert.Equal(t, "after login", e.Description)

	assert.ErrorIs(t, r.ReplaceAt(3, updated), errUtils.ErrIndexOutOfRange)
}

func TestMergeAppendsInOrder(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(testEntry(t, "a")))
	require.NoError(t, r.Add(testEntry(t, "b")))

	imported := []Entry{testEntry(t, "c"), testEntry(t, "d")}
	r.MergeOrReplace(imported, ImportMerge)

	require.Equal(t, 4, r.Len())
	names := []string{}
	for _, e := range r.Entries() {
		names = append(names, e.AccountName)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

func TestReplaceDiscardsExistingEntries(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(testEntry(t, "old")))

	imported := []Entry{testEntry(t, "new-1"), testEntry(t, "new-2")}
	r.MergeOrReplace(imported, ImportReplace)

	require.Equal(t, 2, r.Len())
	names := []string{}
	for _, e := range r.Entries() {
		names = append(names, e.AccountName)
	}
	assert.Equal(t, []string{"new-1", "new-2"}, names)
}

func TestEntriesReturnsCopies(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(testSPEntry(t, "acct", "secret")))

	entries := r.Entries()
	entries[0].ServicePrincipal.ClientID = "tampered"

	e, err := r.At(0)
	require.NoError(t, err)
	assert.Equal(t, "client-1", e.ServicePrincipal.ClientID)
}
