package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiplabel/shiplabel-backend/internal/data/repos"
	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	"github.com/shiplabel/shiplabel-backend/internal/modules/shipping/ingestion"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/ctxutil"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

var (
	ErrNoValidShipments   = errors.New("no valid shipments found")
	ErrNoShipmentsCreated = errors.New("no shipments created")
)

// Outcomes reported for materialized rows, alongside the ingestion outcomes.
const (
	OutcomeCreated           = "created"
	OutcomeMaterializeFailed = "materialize_failed"
)

type UploadResult struct {
	BatchID   string
	Shipments []*types.Shipment
	Errors    []string
}

// UploadError carries the partial result of an upload that created nothing.
type UploadError struct {
	Err    error
	Result *UploadResult
}

func (e *UploadError) Error() string { return e.Err.Error() }

func (e *UploadError) Unwrap() error { return e.Err }

// MaterializeError is a failure to persist one parsed draft. Index is zero-based.
type MaterializeError struct {
	Index int
	Err   error
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("Error creating shipment %d: %v", e.Index+1, e.Err)
}

func (e *MaterializeError) Unwrap() error { return e.Err }

type UploadService interface {
	Upload(ctx context.Context, raw []byte, filename string) (*UploadResult, error)
	Materialize(dbc dbctx.Context, draft *types.ShipmentDraft, index int) (*types.Shipment, error)
}

type uploadService struct {
	txr       dbctx.Transactor
	log       *logger.Logger
	pipeline  *ingestion.Pipeline
	recorder  ingestion.Recorder
	addresses AddressService
	packages  repos.PackageRepo
	shipments repos.ShipmentRepo
}

func NewUploadService(
	txr dbctx.Transactor,
	baseLog *logger.Logger,
	recorder ingestion.Recorder,
	addresses AddressService,
	packages repos.PackageRepo,
	shipments repos.ShipmentRepo,
) UploadService {
	serviceLog := baseLog.With("service", "UploadService")
	return &uploadService{
		txr:       txr,
		log:       serviceLog,
		pipeline:  ingestion.NewPipeline(baseLog, recorder),
		recorder:  recorder,
		addresses: addresses,
		packages:  packages,
		shipments: shipments,
	}
}

// Upload parses the file and materializes every draft in its own transaction. A failed row
// never rolls back rows that were already committed.
func (s *uploadService) Upload(ctx context.Context, raw []byte, filename string) (*UploadResult, error) {
	batchID := uuid.NewString()
	log := s.log.With(append([]interface{}{"batch_id", batchID, "filename", filename}, ctxutil.LogFields(ctx)...)...)
	log.Info("Processing upload", "bytes", len(raw))

	drafts, parseErrs, err := s.pipeline.IngestUpload(raw, filename)
	if err != nil {
		return nil, err
	}
	res := &UploadResult{BatchID: batchID, Errors: parseErrs}
	if len(drafts) == 0 {
		log.Warn("No valid shipments found", "errors", len(parseErrs))
		return nil, &UploadError{Err: ErrNoValidShipments, Result: res}
	}

	ids := make([]uint, 0, len(drafts))
	for i, draft := range drafts {
		var created *types.Shipment
		err := s.txr.InTx(dbctx.Context{Ctx: ctx}, func(inner dbctx.Context) error {
			var err error
			created, err = s.Materialize(inner, draft, i)
			return err
		})
		if err != nil {
			merr := &MaterializeError{Index: i, Err: err}
			log.Warn(merr.Error())
			res.Errors = append(res.Errors, merr.Error())
			s.observe(OutcomeMaterializeFailed)
			continue
		}
		ids = append(ids, created.ID)
		s.observe(OutcomeCreated)
	}

	if len(ids) == 0 {
		log.Warn("Failed to create any shipments", "errors", len(res.Errors))
		return nil, &UploadError{Err: ErrNoShipmentsCreated, Result: res}
	}

	shipments, err := s.shipments.GetByIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		return nil, fmt.Errorf("reload created shipments: %w", err)
	}
	res.Shipments = shipments
	log.Info("Upload complete", "created", len(shipments), "errors", len(res.Errors))
	return res, nil
}

// Materialize writes one draft using dbc's transaction: ship-to and ship-from are upserted, the
// package is always new and the shipment starts pending without a service.
func (s *uploadService) Materialize(dbc dbctx.Context, draft *types.ShipmentDraft, index int) (*types.Shipment, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	shipTo, err := s.addresses.Upsert(dbc, draft.ShipTo)
	if err != nil {
		return nil, err
	}
	var shipFromID *uint
	if draft.HasShipFrom() {
		shipFrom, err := s.addresses.Upsert(dbc, *draft.ShipFrom)
		if err != nil {
			return nil, err
		}
		shipFromID = &shipFrom.ID
	}

	pkgs, err := s.packages.Create(dbc, []*types.Package{types.NewPackage(draft.Package)})
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	sh := &types.Shipment{
		ShipFromID:  shipFromID,
		ShipToID:    shipTo.ID,
		PackageID:   pkgs[0].ID,
		OrderNumber: draft.OrderNumber,
		Status:      types.StatusPending,
	}
	if _, err := s.shipments.Create(dbc, []*types.Shipment{sh}); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	s.log.Debug("shipment materialized", "row_index", index, "shipment_id", sh.ID)
	return sh, nil
}

func (s *uploadService) observe(outcome string) {
	if s.recorder != nil {
		s.recorder.ObserveUploadRow(outcome)
	}
}
