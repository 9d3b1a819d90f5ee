package mediaservices

// Account is a Media Services account resource. Only the fields the login
// flow consumes are modeled.
type Account struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Location   string            `json:"location"`
	Properties AccountProperties `json:"properties"`
}

// AccountProperties holds the account properties consumed by the login flow.
type AccountProperties struct {
	MediaServiceID  string           `json:"mediaServiceId,omitempty"`
	StorageAccounts []StorageAccount `json:"storageAccounts,omitempty"`
}

// StorageAccount is a storage account associated with a Media Services
// account. Type is "Primary" or "Secondary".
type StorageAccount struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}
