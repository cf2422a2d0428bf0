package repositories

import (
	"context"

	"github.com/talentforge/payroll-fx/internal/core/domain"
)

// ConversionWriter defines write operations for the conversion ledger
type ConversionWriter interface {
	// SaveConversion appends a ledger entry. Entries are never updated or deleted.
	SaveConversion(ctx context.Context, record domain.ConversionRecord) error
}

// ConversionReader defines read operations for the conversion ledger
type ConversionReader interface {
	// ListConversionsByReference retrieves ledger entries linked to a business
	// entity (e.g. a paycheck), newest first.
	ListConversionsByReference(ctx context.Context, organizationID, referenceType, referenceID string) ([]domain.ConversionRecord, error)
}

// ConversionRepositoryFacade combines all conversion-ledger repository interfaces
type ConversionRepositoryFacade interface {
	ConversionWriter
	ConversionReader
}
