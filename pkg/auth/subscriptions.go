package auth

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"

	errUtils "github.com/mediaops/amsctl/errors"
	"github.com/mediaops/amsctl/pkg/environment"
)

// ListSubscriptions enumerates the subscriptions reachable with the given
// credential, for picking an account after an interactive sign-in.
func (b *Broker) ListSubscriptions(ctx context.Context, env environment.Descriptor, cred azcore.TokenCredential) ([]Subscription, error) {
	client, err := armsubscriptions.NewClient(cred, &arm.ClientOptions{
		ClientOptions: azcore.ClientOptions{Cloud: env.Cloud()},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create subscriptions client: %w", errUtils.ErrAuthenticationFailed, err)
	}

	var out []Subscription
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list subscriptions: %w", errUtils.ErrAuthenticationFailed, err)
		}
		for _, s := range page.Value {
			var sub Subscription
			if s.SubscriptionID != nil {
				sub.ID = *s.SubscriptionID
			}
			if s.DisplayName != nil {
				sub.DisplayName = *s.DisplayName
			}
			out = append(out, sub)
		}
	}
	return out, nil
}
