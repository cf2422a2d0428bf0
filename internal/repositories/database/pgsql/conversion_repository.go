package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	"github.com/talentforge/payroll-fx/internal/models"
	"github.com/talentforge/payroll-fx/internal/utils/mapping"
)

// PgxConversionRepository implements the conversion-ledger repository
// interfaces using pgxpool. The ledger is insert-only: no update or delete
// statement exists in this repository on purpose.
type PgxConversionRepository struct {
	BaseRepository
}

// NewPgxConversionRepository creates a new PgxConversionRepository.
func NewPgxConversionRepository(db *pgxpool.Pool) *PgxConversionRepository {
	return &PgxConversionRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SaveConversion appends a ledger entry.
func (r *PgxConversionRepository) SaveConversion(ctx context.Context, record domain.ConversionRecord) error {
	m := mapping.ToModelConversionRecord(record)

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO conversion_records (
			conversion_id, organization_id, from_currency_code, to_currency_code,
			from_amount, to_amount, rate_used, rate_source, exchange_rate_id,
			reference_type, reference_id, rounding_method, decimal_places, via,
			created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		m.ConversionID, m.OrganizationID, m.FromCurrencyCode, m.ToCurrencyCode,
		m.FromAmount, m.ToAmount, m.RateUsed, m.RateSource, m.ExchangeRateID,
		m.ReferenceType, m.ReferenceID, m.RoundingMethod, m.DecimalPlaces, m.Via,
		m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save conversion record", err)
	}
	return nil
}

// ListConversionsByReference retrieves ledger entries linked to a business entity, newest first.
func (r *PgxConversionRepository) ListConversionsByReference(ctx context.Context, organizationID, referenceType, referenceID string) ([]domain.ConversionRecord, error) {
	query := `
		SELECT conversion_id, organization_id, from_currency_code, to_currency_code,
		       from_amount, to_amount, rate_used, rate_source, exchange_rate_id,
		       reference_type, reference_id, rounding_method, decimal_places, via,
		       created_at, created_by
		FROM conversion_records
		WHERE organization_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY created_at DESC;
	`

	rows, err := r.Pool.Query(ctx, query, organizationID, referenceType, referenceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list conversion records", err)
	}
	defer rows.Close()

	var records []domain.ConversionRecord
	for rows.Next() {
		var m models.ConversionRecord
		err := rows.Scan(
			&m.ConversionID, &m.OrganizationID, &m.FromCurrencyCode, &m.ToCurrencyCode,
			&m.FromAmount, &m.ToAmount, &m.RateUsed, &m.RateSource, &m.ExchangeRateID,
			&m.ReferenceType, &m.ReferenceID, &m.RoundingMethod, &m.DecimalPlaces, &m.Via,
			&m.CreatedAt, &m.CreatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan conversion record", err)
		}
		records = append(records, mapping.ToDomainConversionRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating conversion records", err)
	}
	return records, nil
}
