package services

import (
	"context"

	"github.com/talentforge/payroll-fx/internal/core/domain"
	"github.com/talentforge/payroll-fx/internal/dto"
)

// ConversionSvc performs currency conversions and maintains the conversion ledger.
type ConversionSvc interface {
	// Convert resolves a rate, applies it under the requested rounding
	// discipline, and (when a reference is supplied) appends a ledger entry
	// best-effort: a ledger-write failure never fails the conversion.
	Convert(ctx context.Context, organizationID string, req dto.ConvertRequest, createdBy string) (*dto.ConversionResponse, error)

	// ConvertBatch processes entries independently; a failure in one entry is
	// captured in its result and never aborts siblings. Results are returned
	// in input order.
	ConvertBatch(ctx context.Context, organizationID string, reqs []dto.ConvertRequest, createdBy string) []dto.BatchConversionResult

	// ListConversionsByReference retrieves ledger entries for a business entity.
	ListConversionsByReference(ctx context.Context, organizationID, referenceType, referenceID string) ([]domain.ConversionRecord, error)
}
