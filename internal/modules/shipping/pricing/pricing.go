package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
)

// Service option tokens accepted by bulk assignment.
const (
	OptionCheapest = "cheapest"
	OptionPriority = "priority"
	OptionGround   = "ground"
)

// ErrUnresolvableService is returned before any shipment is touched.
var ErrUnresolvableService = fmt.Errorf("invalid service option: %w", pkgerrors.ErrInvalidArgument)

// Price is base_price + per_oz_rate * total_weight_oz, exact.
func Price(svc *types.ShippingService, pkg *types.Package) decimal.Decimal {
	oz := decimal.NewFromInt(int64(pkg.TotalWeightOz()))
	return svc.BasePrice.Add(svc.PerOzRate.Mul(oz))
}

// CachedPrice is the value stored on a shipment.
func CachedPrice(svc *types.ShippingService, pkg *types.Package) decimal.Decimal {
	return Price(svc, pkg).Round(2)
}

// ResolveServiceOption maps an option token, or failing that an explicit id, to a service id.
// A recognised token takes precedence over the id.
func ResolveServiceOption(option string, explicitID *uint, services []*types.ShippingService) (uint, error) {
	switch strings.ToLower(strings.TrimSpace(option)) {
	case OptionCheapest:
		var best *types.ShippingService
		for _, s := range services {
			if best == nil || s.BasePrice.LessThan(best.BasePrice) ||
				(s.BasePrice.Equal(best.BasePrice) && s.ID < best.ID) {
				best = s
			}
		}
		if best == nil {
			return 0, ErrUnresolvableService
		}
		return best.ID, nil
	case OptionPriority:
		return byName(types.ServicePriority, services)
	case OptionGround:
		return byName(types.ServiceGround, services)
	}

	if explicitID == nil || *explicitID == 0 {
		return 0, ErrUnresolvableService
	}
	for _, s := range services {
		if s.ID == *explicitID {
			return s.ID, nil
		}
	}
	return 0, ErrUnresolvableService
}

func byName(name types.ServiceName, services []*types.ShippingService) (uint, error) {
	var found *types.ShippingService
	for _, s := range services {
		if s.Name == name && (found == nil || s.ID < found.ID) {
			found = s
		}
	}
	if found == nil {
		return 0, ErrUnresolvableService
	}
	return found.ID, nil
}

// IsUnresolvable reports whether err came from ResolveServiceOption.
func IsUnresolvable(err error) bool {
	return errors.Is(err, ErrUnresolvableService)
}
