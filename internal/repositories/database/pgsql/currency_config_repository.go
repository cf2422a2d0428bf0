package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	"github.com/talentforge/payroll-fx/internal/models"
	"github.com/talentforge/payroll-fx/internal/utils/mapping"
)

// PgxCurrencyConfigRepository implements the currency-config repository interfaces using pgxpool.
type PgxCurrencyConfigRepository struct {
	BaseRepository
}

// NewPgxCurrencyConfigRepository creates a new PgxCurrencyConfigRepository.
func NewPgxCurrencyConfigRepository(db *pgxpool.Pool) *PgxCurrencyConfigRepository {
	return &PgxCurrencyConfigRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// FindConfigByOrganization retrieves the currency configuration for an organization.
func (r *PgxCurrencyConfigRepository) FindConfigByOrganization(ctx context.Context, organizationID string) (*domain.OrgCurrencyConfig, error) {
	query := `
		SELECT organization_id, base_currency_code, supported_currencies,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM org_currency_configs
		WHERE organization_id = $1;
	`

	var m models.OrgCurrencyConfig
	err := r.Pool.QueryRow(ctx, query, organizationID).Scan(
		&m.OrganizationID, &m.BaseCurrencyCode, &m.SupportedCurrencies,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("currency config for organization " + organizationID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find currency config", err)
	}

	config := mapping.ToDomainCurrencyConfig(m)
	return &config, nil
}

// SaveConfig persists a new currency configuration.
func (r *PgxCurrencyConfigRepository) SaveConfig(ctx context.Context, config domain.OrgCurrencyConfig) error {
	m := mapping.ToModelCurrencyConfig(config)

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO org_currency_configs (
			organization_id, base_currency_code, supported_currencies,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.OrganizationID, m.BaseCurrencyCode, m.SupportedCurrencies,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "currency config already exists for organization", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save currency config", err)
	}
	return nil
}

// UpdateConfig replaces the base currency and supported set for an organization.
func (r *PgxCurrencyConfigRepository) UpdateConfig(ctx context.Context, config domain.OrgCurrencyConfig) error {
	m := mapping.ToModelCurrencyConfig(config)

	tag, err := r.Pool.Exec(ctx, `
		UPDATE org_currency_configs
		SET base_currency_code = $1, supported_currencies = $2,
		    last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $5`,
		m.BaseCurrencyCode, m.SupportedCurrencies,
		m.LastUpdatedAt, m.LastUpdatedBy, m.OrganizationID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update currency config", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("currency config for organization " + config.OrganizationID + " not found")
	}
	return nil
}
