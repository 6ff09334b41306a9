package addressval

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

type stubProvider struct {
	name  string
	res   ProviderResult
	err   error
	calls atomic.Int32
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Validate(_ context.Context, addr types.AddressDraft) (ProviderResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return ProviderResult{}, s.err
	}
	return s.res, nil
}

type mapCache struct {
	mu sync.Mutex
	m  map[string]types.AddressDraft
}

func (c *mapCache) Get(_ context.Context, key string) (*types.AddressDraft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.m[key]; ok {
		return &a, nil
	}
	return nil, nil
}

func (c *mapCache) Set(_ context.Context, key string, addr types.AddressDraft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = addr
	return nil
}

var sample = types.AddressDraft{
	FirstName:    "Jane",
	LastName:     "Doe",
	AddressLine1: "123 main st",
	City:         "springfield",
	State:        "IL",
	ZipCode:      "62701",
	Phone:        "5551234567",
}

func TestValidate_FallsBackInOrder(t *testing.T) {
	first := &stubProvider{name: "usps", err: errors.New("boom")}
	second := &stubProvider{name: "smarty", res: ProviderResult{
		Valid:   true,
		Address: types.AddressDraft{AddressLine1: "123 MAIN ST", City: "SPRINGFIELD", State: "IL", ZipCode: "62701-1234"},
	}}

	v := New(logger.Nop(), nil, first, second)
	res := v.Validate(context.Background(), sample)

	assert.True(t, res.Valid)
	assert.Equal(t, "smarty", res.Provider)
	assert.Equal(t, "123 MAIN ST", res.Address.AddressLine1)
	assert.Equal(t, "62701-1234", res.Address.ZipCode)
	assert.Equal(t, "Jane", res.Address.FirstName, "name fields are kept")
	assert.Equal(t, "5551234567", res.Address.Phone)
	assert.Empty(t, res.Message)
	assert.Equal(t, int32(1), first.calls.Load())
}

func TestValidate_RejectionFallsThrough(t *testing.T) {
	first := &stubProvider{name: "usps", res: ProviderResult{Valid: false, Message: "not found"}}
	second := &stubProvider{name: "smarty", res: ProviderResult{Valid: true, Address: sample}}

	res := New(logger.Nop(), nil, first, second).Validate(context.Background(), sample)
	assert.True(t, res.Valid)
	assert.Equal(t, "smarty", res.Provider)
	assert.Equal(t, int32(1), first.calls.Load())
	assert.Equal(t, int32(1), second.calls.Load())
}

func TestValidate_FirstValidWins(t *testing.T) {
	first := &stubProvider{name: "usps", res: ProviderResult{Valid: true, Address: sample}}
	second := &stubProvider{name: "smarty", res: ProviderResult{Valid: true, Address: sample}}

	res := New(logger.Nop(), nil, first, second).Validate(context.Background(), sample)
	assert.Equal(t, "usps", res.Provider)
	assert.Equal(t, int32(0), second.calls.Load())
}

func TestValidate_AllUnavailableReturnsOriginal(t *testing.T) {
	v := New(logger.Nop(), nil,
		&stubProvider{name: "usps", err: errors.New("timeout")},
		&stubProvider{name: "smarty", res: ProviderResult{Valid: false}},
	)
	res := v.Validate(context.Background(), sample)
	assert.False(t, res.Valid)
	assert.Equal(t, sample, res.Address)
	assert.Equal(t, UnavailableMessage, res.Message)

	res = New(logger.Nop(), nil).Validate(context.Background(), sample)
	assert.False(t, res.Valid)
	assert.Equal(t, UnavailableMessage, res.Message)
}

func TestValidate_UsesCache(t *testing.T) {
	cache := &mapCache{m: map[string]types.AddressDraft{}}
	p := &stubProvider{name: "usps", res: ProviderResult{Valid: true, Address: types.AddressDraft{
		AddressLine1: "123 MAIN ST", City: "SPRINGFIELD", State: "IL", ZipCode: "62701",
	}}}
	v := New(logger.Nop(), cache, p)

	first := v.Validate(context.Background(), sample)
	second := v.Validate(context.Background(), sample)

	assert.True(t, second.Valid)
	assert.Equal(t, "cache", second.Provider)
	assert.Equal(t, first.Address, second.Address)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestValidateMany_KeepsOrder(t *testing.T) {
	v := New(logger.Nop(), nil, NewOffline())
	addrs := []types.AddressDraft{sample, {FirstName: "No", City: "Nowhere"}, sample}
	out := v.ValidateMany(context.Background(), addrs)

	require.Len(t, out, 3)
	assert.True(t, out[0].Valid)
	assert.False(t, out[1].Valid)
	assert.Equal(t, "Nowhere", out[1].Address.City)
	assert.True(t, out[2].Valid)
}

func TestChain(t *testing.T) {
	log := logger.Nop()

	names := New(log, nil, Chain(log, USPSConfig{}, SmartyConfig{})...).Providers()
	assert.Equal(t, []string{"offline"}, names)

	names = New(log, nil, Chain(log,
		USPSConfig{Token: "t"},
		SmartyConfig{AuthID: "id", AuthToken: "tok"},
	)...).Providers()
	assert.Equal(t, []string{"usps", "smarty"}, names)

	names = New(log, nil, Chain(log, USPSConfig{}, SmartyConfig{AuthID: "id"})...).Providers()
	assert.Equal(t, []string{"offline"}, names, "partial credentials do not register a provider")
}

func TestCacheKey_NormalizesCaseAndSpacing(t *testing.T) {
	a := sample
	b := sample
	b.AddressLine1 = "  123   MAIN st "
	b.City = "Springfield"
	assert.Equal(t, CacheKey(a), CacheKey(b))
}

type outcomeRecorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *outcomeRecorder) ObserveAddressValidation(provider, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, provider+":"+outcome)
}

func TestValidate_RecordsProviderOutcomes(t *testing.T) {
	rec := &outcomeRecorder{}
	v := New(logger.Nop(), nil,
		&stubProvider{name: "usps", err: errors.New("timeout")},
		&stubProvider{name: "smarty", res: ProviderResult{Valid: false}},
	).WithRecorder(rec)

	v.Validate(context.Background(), sample)
	assert.Equal(t, []string{"usps:error", "smarty:invalid"}, rec.seen)
}
