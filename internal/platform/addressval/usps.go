package addressval

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/httpx"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

const DefaultUSPSBaseURL = "https://apis.usps.com"

type USPSConfig struct {
	ClientConfig
	Token string
}

type uspsProvider struct {
	baseURL string
	token   string
	client  *jsonClient
}

type uspsAddressResponse struct {
	Address struct {
		StreetAddress    string `json:"streetAddress"`
		SecondaryAddress string `json:"secondaryAddress"`
		City             string `json:"city"`
		State            string `json:"state"`
		ZIPCode          string `json:"ZIPCode"`
		ZIPPlus4         string `json:"ZIPPlus4"`
	} `json:"address"`
}

// NewUSPS returns nil when no token is configured.
func NewUSPS(cfg USPSConfig, baseLog *logger.Logger) Provider {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultUSPSBaseURL
	}
	log := baseLog.With("provider", "usps")
	return &uspsProvider{
		baseURL: base,
		token:   cfg.Token,
		client:  newJSONClient("usps", cfg.ClientConfig, log),
	}
}

func (p *uspsProvider) Name() string { return "usps" }

func (p *uspsProvider) Validate(ctx context.Context, addr types.AddressDraft) (ProviderResult, error) {
	q := url.Values{}
	q.Set("streetAddress", addr.AddressLine1)
	if addr.AddressLine2 != "" {
		q.Set("secondaryAddress", addr.AddressLine2)
	}
	q.Set("city", addr.City)
	q.Set("state", addr.State)
	q.Set("ZIPCode", addr.ZipCode)

	var out uspsAddressResponse
	err := p.client.getJSON(ctx, p.baseURL+"/addresses/v3/address?"+q.Encode(),
		map[string]string{"Authorization": "Bearer " + p.token}, &out)
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && (se.Code == http.StatusNotFound || se.Code == http.StatusBadRequest) {
			return ProviderResult{Valid: false, Address: addr, Message: "address not found"}, nil
		}
		return ProviderResult{}, err
	}
	if out.Address.StreetAddress == "" {
		return ProviderResult{Valid: false, Address: addr, Message: "address not found"}, nil
	}

	zip := out.Address.ZIPCode
	if out.Address.ZIPPlus4 != "" {
		zip += "-" + out.Address.ZIPPlus4
	}
	return ProviderResult{
		Valid: true,
		Address: types.AddressDraft{
			AddressLine1: out.Address.StreetAddress,
			AddressLine2: out.Address.SecondaryAddress,
			City:         out.Address.City,
			State:        out.Address.State,
			ZipCode:      zip,
		},
	}, nil
}
