package addressval

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

// UnavailableMessage is returned with the original address when no provider accepted it.
const UnavailableMessage = "Address validation unavailable, using original address"

const maxParallel = 4

// ProviderResult is a single provider's answer. Valid=false with a nil error is a rejection;
// an error means the provider could not answer. Either way the next provider is asked.
type ProviderResult struct {
	Valid   bool
	Address types.AddressDraft
	Message string
}

type Provider interface {
	Name() string
	Validate(ctx context.Context, addr types.AddressDraft) (ProviderResult, error)
}

type Result struct {
	Valid    bool
	Address  types.AddressDraft
	Message  string
	Provider string
}

// Cache stores accepted normalizations keyed by CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (*types.AddressDraft, error)
	Set(ctx context.Context, key string, addr types.AddressDraft) error
}

// Recorder observes each provider call. Outcome is valid, invalid or error.
type Recorder interface {
	ObserveAddressValidation(provider, outcome string, dur time.Duration)
}

type Validator struct {
	log       *logger.Logger
	providers []Provider
	cache     Cache
	recorder  Recorder
}

// New builds a validator that asks providers in order. cache may be nil.
func New(baseLog *logger.Logger, cache Cache, providers ...Provider) *Validator {
	return &Validator{
		log:       baseLog.With("service", "AddressValidator"),
		providers: providers,
		cache:     cache,
	}
}

func (v *Validator) Providers() []string {
	out := make([]string, 0, len(v.providers))
	for _, p := range v.providers {
		out = append(out, p.Name())
	}
	return out
}

// WithRecorder attaches r and returns v.
func (v *Validator) WithRecorder(r Recorder) *Validator {
	v.recorder = r
	return v
}

func (v *Validator) observe(provider, outcome string, start time.Time) {
	if v.recorder != nil {
		v.recorder.ObserveAddressValidation(provider, outcome, time.Since(start))
	}
}

// Validate never fails: when every provider errors or rejects, the original address comes back
// with UnavailableMessage.
func (v *Validator) Validate(ctx context.Context, addr types.AddressDraft) Result {
	key := CacheKey(addr)
	if v.cache != nil {
		if cached, err := v.cache.Get(ctx, key); err != nil {
			v.log.Warn("address cache read failed", "error", err)
		} else if cached != nil {
			return Result{Valid: true, Address: merge(addr, *cached), Provider: "cache"}
		}
	}

	for _, p := range v.providers {
		start := time.Now()
		res, err := p.Validate(ctx, addr)
		if err != nil {
			v.observe(p.Name(), "error", start)
			v.log.Warn("address provider failed", "provider", p.Name(), "error", err)
			continue
		}
		if !res.Valid {
			v.observe(p.Name(), "invalid", start)
			v.log.Info("address rejected by provider", "provider", p.Name(), "message", res.Message)
			continue
		}
		v.observe(p.Name(), "valid", start)
		normalized := merge(addr, res.Address)
		if v.cache != nil {
			if err := v.cache.Set(ctx, key, normalized); err != nil {
				v.log.Warn("address cache write failed", "error", err)
			}
		}
		v.log.Info("address validated", "provider", p.Name())
		return Result{Valid: true, Address: normalized, Provider: p.Name()}
	}

	v.log.Warn("all address providers failed, using original address", "providers", len(v.providers))
	return Result{Valid: false, Address: addr, Message: UnavailableMessage}
}

// ValidateMany validates addresses concurrently. Results keep input order.
func (v *Validator) ValidateMany(ctx context.Context, addrs []types.AddressDraft) []Result {
	out := make([]Result, len(addrs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i := range addrs {
		i := i
		g.Go(func() error {
			out[i] = v.Validate(gctx, addrs[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// CacheKey normalizes the fields that providers look at.
func CacheKey(addr types.AddressDraft) string {
	parts := []string{addr.AddressLine1, addr.AddressLine2, addr.City, addr.State, addr.ZipCode}
	for i, p := range parts {
		parts[i] = strings.ToUpper(strings.Join(strings.Fields(p), " "))
	}
	return "addressval:" + strings.Join(parts, "|")
}

// merge keeps the caller's name and phone and takes the provider's postal fields.
func merge(orig, normalized types.AddressDraft) types.AddressDraft {
	out := orig
	if normalized.AddressLine1 != "" {
		out.AddressLine1 = normalized.AddressLine1
	}
	out.AddressLine2 = normalized.AddressLine2
	if normalized.City != "" {
		out.City = normalized.City
	}
	if normalized.State != "" {
		out.State = normalized.State
	}
	if normalized.ZipCode != "" {
		out.ZipCode = normalized.ZipCode
	}
	return out
}

// Chain returns the configured remote providers in fallback order, or the offline check when
// none has credentials.
func Chain(baseLog *logger.Logger, usps USPSConfig, smarty SmartyConfig) []Provider {
	var out []Provider
	if p := NewUSPS(usps, baseLog); p != nil {
		out = append(out, p)
	}
	if p := NewSmarty(smarty, baseLog); p != nil {
		out = append(out, p)
	}
	if len(out) == 0 {
		out = append(out, NewOffline())
	}
	return out
}
