package service

import (
	"context"
	"strings"

	"flowsite-api/core/errors"
	"flowsite-api/core/logger"
	"flowsite-api/core/params"
	"flowsite-api/core/queue"
	"flowsite-api/core/utils"
	"flowsite-api/modules/contact/dto"
	"flowsite-api/modules/contact/entity"
	"flowsite-api/modules/contact/repository"

	"github.com/gosimple/slug"
)

var allowedKinds = map[string]bool{
	"partner": true,
	"contact": true,
	"demo":    true,
}

type ContactService interface {
	// Create stores a contact request and queues the notification email to
	// the business inbox. Returns the public reference for the request.
	Create(ctx context.Context, in dto.CreateContactRequest) (*dto.ContactReceipt, *errors.AppError)
	List(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedContactRequestEntity, *errors.AppError)
}

type contactService struct {
	repo  repository.ContactRepository
	queue *queue.Client
}

func NewContactService(repo repository.ContactRepository, q *queue.Client) ContactService {
	return &contactService{repo: repo, queue: q}
}

func (s *contactService) Create(ctx context.Context, in dto.CreateContactRequest) (*dto.ContactReceipt, *errors.AppError) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Company = strings.TrimSpace(in.Company)
	in.Kind = strings.ToLower(strings.TrimSpace(in.Kind))
	in.Message = strings.TrimSpace(in.Message)

	if in.Name == "" || in.Email == "" || in.Message == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name, email and message are required", nil)
	}
	if !utils.IsValidEmail(in.Email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid email address", nil)
	}
	if in.Kind == "" {
		in.Kind = "contact"
	}
	if !allowedKinds[in.Kind] {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown contact kind", nil)
	}

	reference := s.makeReference(in)
	req := &entity.ContactRequest{
		Reference: reference,
		Name:      in.Name,
		Email:     in.Email,
		Company:   in.Company,
		Kind:      in.Kind,
		Message:   in.Message,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to store contact request", err)
	}

	// Notification delivery is best-effort; the stored request is the source
	// of truth.
	if err := s.queue.EnqueueContactNotification(queue.ContactNotificationPayload{
		Reference: reference,
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Kind:      req.Kind,
		Message:   req.Message,
	}); err != nil {
		logger.Warn("ContactService:Create:Enqueue:Error", "error", err, "reference", reference)
	}

	logger.Info("ContactService:Create:Success", "reference", reference, "kind", req.Kind)
	return &dto.ContactReceipt{Reference: reference}, nil
}

func (s *contactService) List(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedContactRequestEntity, *errors.AppError) {
	result, err := s.repo.List(ctx, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list contact requests", err)
	}
	return result, nil
}

// makeReference builds a human-readable unique reference such as
// "acme-corp-x7Km2Qp" from the company (or name) plus a random suffix.
func (s *contactService) makeReference(in dto.CreateContactRequest) string {
	base := in.Company
	if base == "" {
		base = in.Name
	}
	return slug.Make(base) + "-" + utils.GenerateID()
}
