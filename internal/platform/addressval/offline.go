package addressval

import (
	"context"
	"strings"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
)

type offlineProvider struct{}

// NewOffline accepts any address carrying a street line, city, state and ZIP, unchanged. It
// stands in for the remote providers when none are configured.
func NewOffline() Provider { return offlineProvider{} }

func (offlineProvider) Name() string { return "offline" }

func (offlineProvider) Validate(_ context.Context, addr types.AddressDraft) (ProviderResult, error) {
	for _, f := range []string{addr.AddressLine1, addr.City, addr.State, addr.ZipCode} {
		if strings.TrimSpace(f) == "" {
			return ProviderResult{Valid: false, Address: addr, Message: "Missing required address fields"}, nil
		}
	}
	return ProviderResult{Valid: true, Address: addr}, nil
}
