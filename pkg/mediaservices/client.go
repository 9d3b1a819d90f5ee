// Package mediaservices is a minimal management-plane client for Media
// Services accounts. Only the operations the login flow consumes are
// implemented; requests are built the same way generated ARM clients build
// them, over the azcore pipeline.
package mediaservices

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

const (
	moduleName    = "github.com/mediaops/amsctl/pkg/mediaservices"
	moduleVersion = "v0.1.0"
	apiVersion    = "2023-01-01"
)

// Client issues Media Services management-plane requests.
type Client struct {
	internal *arm.Client
}

// NewClient creates a client bound to the given credential. The management
// endpoint comes from the cloud configuration in options.
func NewClient(credential azcore.TokenCredential, options *arm.ClientOptions) (*Client, error) {
	cl, err := arm.NewClient(moduleName+".Client", moduleVersion, credential, options)
	if err != nil {
		return nil, err
	}
	return &Client{internal: cl}, nil
}

// GetAccount fetches a Media Services account, including its associated
// storage accounts.
func (c *Client) GetAccount(ctx context.Context, subscriptionID, resourceGroup, accountName string) (Account, error) {
	if subscriptionID == "" {
		return Account{}, errors.New("parameter subscriptionID cannot be empty")
	}
	if resourceGroup == "" {
		return Account{}, errors.New("parameter resourceGroup cannot be empty")
	}
	if accountName == "" {
		return Account{}, errors.New("parameter accountName cannot be empty")
	}

	urlPath := "/subscriptions/{subscriptionId}/resourceGroups/{resourceGroupName}/providers/Microsoft.Media/mediaservices/{accountName}"
	urlPath = strings.ReplaceAll(urlPath, "{subscriptionId}", url.PathEscape(subscriptionID))
	urlPath = strings.ReplaceAll(urlPath, "{resourceGroupName}", url.PathEscape(resourceGroup))
	urlPath = strings.ReplaceAll(urlPath, "{accountName}", url.PathEscape(accountName))

	req, err := runtime.NewRequest(ctx, http.MethodGet, runtime.JoinPaths(c.internal.Endpoint(), urlPath))
	if err != nil {
		return Account{}, err
	}
	reqQP := req.Raw().URL.Query()
	reqQP.Set("api-version", apiVersion)
	req.Raw().URL.RawQuery = reqQP.Encode()
	req.Raw().Header["Accept"] = []string{"application/json"}

	resp, err := c.internal.Pipeline().Do(req)
	if err != nil {
		return Account{}, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return Account{}, runtime.NewResponseError(resp)
	}

	var account Account
	if err := runtime.UnmarshalAsJSON(resp, &account); err != nil {
		return Account{}, err
	}
	return account, nil
}
