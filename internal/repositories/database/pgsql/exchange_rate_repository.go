package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	"github.com/talentforge/payroll-fx/internal/models"
	"github.com/talentforge/payroll-fx/internal/utils/mapping"
)

const exchangeRateColumns = `
	exchange_rate_id, organization_id, from_currency_code, to_currency_code,
	rate, source, effective_from, effective_to,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxExchangeRateRepository implements the exchange rate repository interfaces using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SaveExchangeRate inserts a new rate row. When the row is current
// (effective_to IS NULL), the prior current row for the pair is closed at the
// new row's effective_from inside the same transaction, so the partial unique
// index on current rows is never violated under a single writer and reports
// ErrDuplicate under concurrent ones.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	fromCurrency := strings.ToUpper(rate.FromCurrencyCode)
	toCurrency := strings.ToUpper(rate.ToCurrencyCode)
	if fromCurrency == toCurrency {
		return apperrors.NewValidationError("from and to currencies cannot be the same")
	}

	modelRate := mapping.ToModelExchangeRate(rate)
	modelRate.FromCurrencyCode = fromCurrency
	modelRate.ToCurrencyCode = toCurrency

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	if modelRate.EffectiveTo == nil {
		_, err = tx.Exec(ctx, `
			UPDATE exchange_rates
			SET effective_to = $1, last_updated_at = $2, last_updated_by = $3
			WHERE organization_id = $4 AND from_currency_code = $5 AND to_currency_code = $6
			  AND effective_to IS NULL`,
			modelRate.EffectiveFrom, modelRate.LastUpdatedAt, modelRate.LastUpdatedBy,
			modelRate.OrganizationID, fromCurrency, toCurrency,
		)
		if err != nil {
			_ = r.Rollback(ctx, tx)
			return apperrors.NewAppError(500, "failed to close prior current rate", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO exchange_rates (
			exchange_rate_id, organization_id, from_currency_code, to_currency_code,
			rate, source, effective_from, effective_to,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		modelRate.ExchangeRateID, modelRate.OrganizationID, modelRate.FromCurrencyCode,
		modelRate.ToCurrencyCode, modelRate.Rate, modelRate.Source,
		modelRate.EffectiveFrom, modelRate.EffectiveTo,
		modelRate.CreatedAt, modelRate.CreatedBy, modelRate.LastUpdatedAt, modelRate.LastUpdatedBy,
	)
	if err != nil {
		_ = r.Rollback(ctx, tx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "a current rate already exists for this pair", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save exchange rate", err)
	}

	return r.Commit(ctx, tx)
}

// UpdateExchangeRate edits a rate row in place.
func (r *PgxExchangeRateRepository) UpdateExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	modelRate := mapping.ToModelExchangeRate(rate)

	tag, err := r.Pool.Exec(ctx, `
		UPDATE exchange_rates
		SET rate = $1, effective_from = $2, effective_to = $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE exchange_rate_id = $6 AND organization_id = $7`,
		modelRate.Rate, modelRate.EffectiveFrom, modelRate.EffectiveTo,
		modelRate.LastUpdatedAt, modelRate.LastUpdatedBy,
		modelRate.ExchangeRateID, modelRate.OrganizationID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "a current rate already exists for this pair", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to update exchange rate", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("exchange rate with ID " + rate.ExchangeRateID + " not found")
	}
	return nil
}

// CloseRateWindow soft-deletes a current rate row by setting effective_to.
// Rows whose window is already closed are historical and stay untouched.
func (r *PgxExchangeRateRepository) CloseRateWindow(ctx context.Context, organizationID, rateID, actorUserID string, closedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE exchange_rates
		SET effective_to = $1, last_updated_at = $1, last_updated_by = $2
		WHERE exchange_rate_id = $3 AND organization_id = $4
		  AND effective_to IS NULL`,
		closedAt, actorUserID, rateID, organizationID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close exchange rate window", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("current exchange rate with ID " + rateID + " not found")
	}
	return nil
}

// FindRateForDate retrieves the rate row for a pair whose validity window
// contains asOf, preferring the most recent effective_from.
func (r *PgxExchangeRateRepository) FindRateForDate(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE organization_id = $1 AND from_currency_code = $2 AND to_currency_code = $3
		  AND effective_from <= $4
		  AND (effective_to IS NULL OR effective_to > $4)
		ORDER BY effective_from DESC
		LIMIT 1;
	`

	modelRate, err := r.scanOne(ctx, query,
		organizationID, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode), asOf)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}

	domainRate := mapping.ToDomainExchangeRate(*modelRate)
	return &domainRate, nil
}

// FindExchangeRateByID retrieves a rate row by its ID, scoped to the organization.
func (r *PgxExchangeRateRepository) FindExchangeRateByID(ctx context.Context, organizationID, rateID string) (*domain.ExchangeRate, error) {
	query := `
		SELECT` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE exchange_rate_id = $1 AND organization_id = $2;
	`

	modelRate, err := r.scanOne(ctx, query, rateID, organizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate with ID " + rateID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get exchange rate by ID", err)
	}

	domainRate := mapping.ToDomainExchangeRate(*modelRate)
	return &domainRate, nil
}

// ListActiveRates retrieves all rate rows whose window contains asOf.
func (r *PgxExchangeRateRepository) ListActiveRates(ctx context.Context, organizationID string, asOf time.Time) ([]domain.ExchangeRate, error) {
	query := `
		SELECT` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE organization_id = $1
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to > $2)
		ORDER BY from_currency_code, to_currency_code, effective_from DESC;
	`

	rows, err := r.Pool.Query(ctx, query, organizationID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list active rates", err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// ListHistoricalRates retrieves rate rows for a pair, newest first, with the
// total row count for pagination.
func (r *PgxExchangeRateRepository) ListHistoricalRates(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, start, end *time.Time, limit, offset int) ([]domain.ExchangeRate, int, error) {
	baseQuery := `FROM exchange_rates
		WHERE organization_id = $1 AND from_currency_code = $2 AND to_currency_code = $3`
	args := []interface{}{organizationID, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode)}
	argNum := 4

	if start != nil {
		baseQuery += fmt.Sprintf(" AND effective_from >= $%d", argNum)
		args = append(args, *start)
		argNum++
	}
	if end != nil {
		baseQuery += fmt.Sprintf(" AND effective_from <= $%d", argNum)
		args = append(args, *end)
		argNum++
	}

	var total int
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count historical rates", err)
	}
	if total == 0 {
		return []domain.ExchangeRate{}, 0, nil
	}

	query := "SELECT" + exchangeRateColumns + " " + baseQuery +
		fmt.Sprintf(" ORDER BY effective_from DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list historical rates", err)
	}
	defer rows.Close()

	rates, err := collectRates(rows)
	if err != nil {
		return nil, 0, err
	}
	return rates, total, nil
}

func (r *PgxExchangeRateRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&m.ExchangeRateID, &m.OrganizationID, &m.FromCurrencyCode, &m.ToCurrencyCode,
		&m.Rate, &m.Source, &m.EffectiveFrom, &m.EffectiveTo,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectRates(rows pgx.Rows) ([]domain.ExchangeRate, error) {
	var rates []domain.ExchangeRate
	for rows.Next() {
		var m models.ExchangeRate
		err := rows.Scan(
			&m.ExchangeRateID, &m.OrganizationID, &m.FromCurrencyCode, &m.ToCurrencyCode,
			&m.Rate, &m.Source, &m.EffectiveFrom, &m.EffectiveTo,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate", err)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rates", err)
	}
	return rates, nil
}
