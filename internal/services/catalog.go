package services

import (
	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

// CatalogService exposes the read-only shipping service catalog.
type CatalogService interface {
	List(dbc dbctx.Context) ([]*types.ShippingService, error)
	Get(dbc dbctx.Context, id uint) (*types.ShippingService, error)
}

type catalogService struct {
	log      *logger.Logger
	services repos.ShippingServiceRepo
}

func NewCatalogService(baseLog *logger.Logger, services repos.ShippingServiceRepo) CatalogService {
	return &catalogService{
		log:      baseLog.With("service", "CatalogService"),
		services: services,
	}
}

func (s *catalogService) List(dbc dbctx.Context) ([]*types.ShippingService, error) {
	return s.services.List(dbc)
}

func (s *catalogService) Get(dbc dbctx.Context, id uint) (*types.ShippingService, error) {
	return s.services.GetByID(dbc, id)
}
