package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"flowsite-api/core/database"
	"flowsite-api/core/logger"
	"flowsite-api/core/params"
	"flowsite-api/modules/contact/entity"
)

type ContactRepository interface {
	Create(ctx context.Context, req *entity.ContactRequest) error
	GetByReference(ctx context.Context, reference string) (*entity.ContactRequest, error)
	List(ctx context.Context, params params.QueryParams) (*entity.PaginatedContactRequestEntity, error)
}

type contactRepository struct {
	db database.IDatabase
}

func NewContactRepository(db database.IDatabase) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, req *entity.ContactRequest) error {
	query := `
		INSERT INTO contact_requests (reference, name, email, company, kind, message)
		VALUES (:reference, :name, :email, :company, :kind, :message)
	`
	_, err := r.db.NamedExecContext(ctx, query, req)
	if err != nil {
		logger.Error("ContactRepository:Create", "error", err, "reference", req.Reference)
		return err
	}
	return nil
}

func (r *contactRepository) GetByReference(ctx context.Context, reference string) (*entity.ContactRequest, error) {
	var req entity.ContactRequest
	query := `
		SELECT
			id,
			reference,
			name,
			email,
			company,
			kind,
			message,
			created_at,
			updated_at
		FROM contact_requests
		WHERE reference = $1
	`
	err := r.db.GetContext(ctx, &req, query, reference)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ContactRepository:GetByReference", "error", err, "reference", reference)
		return nil, err
	}
	return &req, nil
}

func (r *contactRepository) List(ctx context.Context, params params.QueryParams) (*entity.PaginatedContactRequestEntity, error) {
	offset := (params.PageNumber - 1) * params.PageSize

	baseQuery := `FROM contact_requests`

	var whereClause string
	var args []interface{}
	argIndex := 1

	if params.Search != "" {
		whereClause = fmt.Sprintf(" WHERE name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d",
			argIndex, argIndex, argIndex)
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	countQuery := "SELECT COUNT(*) " + baseQuery + whereClause

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, countQuery, args...); err != nil {
		logger.Error("ContactRepository:List:Count", "error", err)
		return nil, err
	}

	dataQuery := strings.Join([]string{
		`SELECT id, reference, name, email, company, kind, message, created_at, updated_at`,
		baseQuery + whereClause,
		`ORDER BY created_at DESC`,
		fmt.Sprintf("LIMIT $%d OFFSET $%d", argIndex, argIndex+1),
	}, "\n")
	args = append(args, params.PageSize, offset)

	var requests []entity.ContactRequest
	if err := r.db.SelectContext(ctx, &requests, dataQuery, args...); err != nil {
		if err == sql.ErrNoRows {
			requests = []entity.ContactRequest{}
		} else {
			logger.Error("ContactRepository:List:Select", "error", err)
			return nil, err
		}
	}

	return &entity.PaginatedContactRequestEntity{
		Items:      requests,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}
