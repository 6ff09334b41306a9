package addressval

import (
	"context"
	"net/url"
	"strings"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

const DefaultSmartyBaseURL = "https://us-street.api.smarty.com"

type SmartyConfig struct {
	ClientConfig
	AuthID    string
	AuthToken string
}

type smartyProvider struct {
	baseURL   string
	authID    string
	authToken string
	client    *jsonClient
}

type smartyCandidate struct {
	DeliveryLine1 string `json:"delivery_line_1"`
	DeliveryLine2 string `json:"delivery_line_2"`
	Components    struct {
		CityName          string `json:"city_name"`
		StateAbbreviation string `json:"state_abbreviation"`
		Zipcode           string `json:"zipcode"`
		Plus4Code         string `json:"plus4_code"`
	} `json:"components"`
}

// NewSmarty returns nil unless both credentials are configured.
func NewSmarty(cfg SmartyConfig, baseLog *logger.Logger) Provider {
	if strings.TrimSpace(cfg.AuthID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultSmartyBaseURL
	}
	log := baseLog.With("provider", "smarty")
	return &smartyProvider{
		baseURL:   base,
		authID:    cfg.AuthID,
		authToken: cfg.AuthToken,
		client:    newJSONClient("smarty", cfg.ClientConfig, log),
	}
}

func (p *smartyProvider) Name() string { return "smarty" }

func (p *smartyProvider) Validate(ctx context.Context, addr types.AddressDraft) (ProviderResult, error) {
	q := url.Values{}
	q.Set("auth-id", p.authID)
	q.Set("auth-token", p.authToken)
	q.Set("street", addr.AddressLine1)
	if addr.AddressLine2 != "" {
		q.Set("secondary", addr.AddressLine2)
	}
	q.Set("city", addr.City)
	q.Set("state", addr.State)
	q.Set("zipcode", addr.ZipCode)
	q.Set("candidates", "1")

	var candidates []smartyCandidate
	if err := p.client.getJSON(ctx, p.baseURL+"/street-address?"+q.Encode(), nil, &candidates); err != nil {
		return ProviderResult{}, err
	}
	if len(candidates) == 0 {
		return ProviderResult{Valid: false, Address: addr, Message: "no candidates"}, nil
	}

	c := candidates[0]
	zip := c.Components.Zipcode
	if c.Components.Plus4Code != "" {
		zip += "-" + c.Components.Plus4Code
	}
	return ProviderResult{
		Valid: true,
		Address: types.AddressDraft{
			AddressLine1: c.DeliveryLine1,
			AddressLine2: c.DeliveryLine2,
			City:         c.Components.CityName,
			State:        c.Components.StateAbbreviation,
			ZipCode:      zip,
		},
	}, nil
}
