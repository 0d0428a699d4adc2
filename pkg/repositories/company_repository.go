package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/database"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// CompanyRepository defines data access for company accounts.
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByEmail(ctx context.Context, email string) (*models.Company, error)
	UpdateProfile(ctx context.Context, company *models.Company) error
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context) ([]*models.Company, error)
}

type companyRepository struct {
	db *database.DB
}

// NewCompanyRepository creates a new company repository.
func NewCompanyRepository(db *database.DB) CompanyRepository {
	return &companyRepository{db: db}
}

const companyColumns = `id, name, tax_id, email, password_hash, role, verified, active, phone, website, description, created_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.PasswordHash, &c.Role,
		&c.Verified, &c.Active, &c.Phone, &c.Website, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	return &c, nil
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (name, tax_id, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, verified, active, created_at`

	err := r.db.QueryRow(ctx, query,
		company.Name, company.TaxID, company.Email, company.PasswordHash, company.Role,
	).Scan(&company.ID, &company.Verified, &company.Active, &company.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.QueryRow(ctx, query, id))
}

func (r *companyRepository) GetByEmail(ctx context.Context, email string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE email = $1`
	return scanCompany(r.db.QueryRow(ctx, query, email))
}

func (r *companyRepository) UpdateProfile(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = $2, phone = $3, website = $4, description = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.Phone, company.Website, company.Description)
	if err != nil {
		return fmt.Errorf("update company profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *companyRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return r.setFlag(ctx, id, "verified", verified)
}

func (r *companyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.setFlag(ctx, id, "active", active)
}

func (r *companyRepository) setFlag(ctx context.Context, id uuid.UUID, column string, value bool) error {
	// column is one of two trusted literals, never user input.
	query := fmt.Sprintf(`UPDATE companies SET %s = $2 WHERE id = $1`, column)
	tag, err := r.db.Exec(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("update company %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *companyRepository) List(ctx context.Context) ([]*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
