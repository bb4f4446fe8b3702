package service

import (
	"context"
	"errors"
	"strings"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/apperr"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContactInput struct {
	Name    string            `json:"name" validate:"required,max=100"`
	Phone   string            `json:"phone" validate:"required,max=15"`
	Email   string            `json:"email" validate:"omitempty,email,max=100"`
	Address string            `json:"address" validate:"max=200"`
	Type    model.ContactType `json:"type" validate:"required,oneof=customer vendor"`
}

func (in *ContactInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Address = strings.TrimSpace(in.Address)
}

// ContactService manages the Directory of customers and vendors.
type ContactService interface {
	CreateContact(ctx context.Context, tenantID uuid.UUID, in ContactInput) (*model.Contact, error)
	UpdateContact(ctx context.Context, tenantID, id uuid.UUID, in ContactInput) (*model.Contact, error)
	DeleteContact(ctx context.Context, tenantID, id uuid.UUID) error
	GetContact(ctx context.Context, tenantID, id uuid.UUID) (*model.Contact, error)
	ListContacts(ctx context.Context, tenantID uuid.UUID, filter repository.ContactFilter, page repository.Page) (*ListResult[model.Contact], error)
}

type contactService struct {
	contacts     repository.ContactRepository
	transactions repository.TransactionRepository
	log          *zap.Logger
}

func NewContactService(contacts repository.ContactRepository, transactions repository.TransactionRepository, log *zap.Logger) ContactService {
	return &contactService{contacts: contacts, transactions: transactions, log: log}
}

func (s *contactService) CreateContact(ctx context.Context, tenantID uuid.UUID, in ContactInput) (*model.Contact, error) {
	in.normalize()
	if msg := validator.FirstError(&in); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}
	if err := s.checkPhone(ctx, tenantID, in.Phone, uuid.Nil); err != nil {
		return nil, err
	}

	contact := &model.Contact{
		TenantID: tenantID,
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		Address:  in.Address,
		Type:     in.Type,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, s.writeFailed(tenantID, err)
	}
	return contact, nil
}

func (s *contactService) UpdateContact(ctx context.Context, tenantID, id uuid.UUID, in ContactInput) (*model.Contact, error) {
	in.normalize()
	if msg := validator.FirstError(&in); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	existing, err := s.contacts.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Contact not found")
	}
	if err := s.checkPhone(ctx, tenantID, in.Phone, id); err != nil {
		return nil, err
	}
	if existing.Type != in.Type {
		referenced, err := s.transactions.ReferencesContact(ctx, tenantID, id)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if referenced {
			return nil, apperr.Conflict("Cannot change type of a contact with recorded transactions")
		}
	}

	existing.Name = in.Name
	existing.Phone = in.Phone
	existing.Email = in.Email
	existing.Address = in.Address
	existing.Type = in.Type
	if err := s.contacts.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Contact not found")
		}
		return nil, s.writeFailed(tenantID, err)
	}
	return s.GetContact(ctx, tenantID, id)
}

func (s *contactService) DeleteContact(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.contacts.FindByID(ctx, tenantID, id); err != nil {
		return notFound(err, "Contact not found")
	}
	referenced, err := s.transactions.ReferencesContact(ctx, tenantID, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if referenced {
		return apperr.Conflict("Cannot delete contact with recorded transactions")
	}
	if err := s.contacts.Delete(ctx, tenantID, id); err != nil {
		return notFound(err, "Contact not found")
	}
	return nil
}

func (s *contactService) GetContact(ctx context.Context, tenantID, id uuid.UUID) (*model.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Contact not found")
	}
	return contact, nil
}

func (s *contactService) ListContacts(ctx context.Context, tenantID uuid.UUID, filter repository.ContactFilter, page repository.Page) (*ListResult[model.Contact], error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperr.Validation("type must be one of: customer, vendor")
	}
	page = normalizePage(page)
	contacts, total, err := s.contacts.List(ctx, tenantID, filter, page)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return &ListResult[model.Contact]{Items: contacts, Pagination: newPagination(page, total)}, nil
}

func (s *contactService) checkPhone(ctx context.Context, tenantID uuid.UUID, phone string, exceptID uuid.UUID) error {
	taken, err := s.contacts.PhoneTaken(ctx, tenantID, phone, exceptID)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.Conflict("Contact with this phone number already exists")
	}
	return nil
}

// writeFailed maps a lost race on the phone unique index to the same conflict the pre-check reports.
func (s *contactService) writeFailed(tenantID uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Conflict("Contact with this phone number already exists")
	}
	s.log.Error("failed to save contact", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	return apperr.Internal(err)
}
