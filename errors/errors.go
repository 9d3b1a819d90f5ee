package errors

import "errors"

// Sentinel errors for the credential registry and login broker. Callers match
// them with errors.Is; operational detail is attached at the call site with
// fmt.Errorf("%w: ...") wrapping.
var (
	// ErrAuthenticationFailed indicates a token could not be obtained from the
	// identity provider (cancelled prompt, bad credentials, provider or
	// network error). The underlying cause is wrapped, never retried.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrAuthenticationCancelled marks a user-cancelled sign-in. It is always
	// wrapped together with ErrAuthenticationFailed so both match.
	ErrAuthenticationCancelled = errors.New("authentication cancelled by user")

	// ErrMetadataRefreshFailed indicates the post-login storage-account
	// refresh failed. The connected client handle remains usable.
	ErrMetadataRefreshFailed = errors.New("storage account refresh failed")

	// ErrMalformedInput indicates a parse or schema violation on an imported
	// registry document or CLI credential JSON.
	ErrMalformedInput = errors.New("malformed input")

	// ErrIndexOutOfRange indicates an invalid registry position.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNoEntrySelected indicates a login was requested without a valid
	// entry selection.
	ErrNoEntrySelected = errors.New("no account entry selected")

	// ErrInvalidEntry indicates a credential entry whose fields are
	// inconsistent with its auth mode.
	ErrInvalidEntry = errors.New("invalid credential entry")

	// ErrInvalidEnvironment indicates an environment descriptor with missing
	// or unknown fields.
	ErrInvalidEnvironment = errors.New("invalid environment")

	// ErrSecretCipher indicates a failure encrypting or decrypting a service
	// principal secret.
	ErrSecretCipher = errors.New("secret cipher error")

	// ErrSettingsStore indicates a failure loading or saving the persisted
	// registry blob.
	ErrSettingsStore = errors.New("settings store error")
)
