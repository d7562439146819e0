package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"procurement/internal/ledger"
	"procurement/models"
)

func validateNewTender(in models.NewTender) (uuid.UUID, error) {
	if err := validateText("name", in.Name, models.MaxNameLength, true); err != nil {
		return uuid.Nil, err
	}
	if err := validateText("description", in.Description, models.MaxDescriptionLength, false); err != nil {
		return uuid.Nil, err
	}
	if !models.ValidServiceType(models.ServiceType(in.ServiceType)) {
		return uuid.Nil, models.Invalid("serviceType", "unknown service type")
	}
	if err := validateText("creatorUsername", in.CreatorUsername, models.MaxUsernameLength, true); err != nil {
		return uuid.Nil, err
	}
	return parseID("organizationId", in.OrganizationID)
}

// CreateTender создает тендер в статусе Created с версией 1.
func (s *Service) CreateTender(ctx context.Context, in models.NewTender) (models.Tender, error) {
	orgID, err := validateNewTender(in)
	if err != nil {
		return models.Tender{}, err
	}

	if _, err := s.employee(ctx, in.CreatorUsername); err != nil {
		return models.Tender{}, err
	}
	if _, err := s.store.Organization(ctx, orgID); err != nil {
		return models.Tender{}, notFound(err, models.Invalid("organizationId", "organization does not exist"))
	}

	t := models.Tender{
		ID:              uuid.New(),
		Name:            in.Name,
		Description:     in.Description,
		ServiceType:     models.ServiceType(in.ServiceType),
		Status:          models.TenderCreated,
		OrganizationID:  orgID,
		Version:         1,
		CreatorUsername: in.CreatorUsername,
		CreatedAt:       s.timestamp(),
	}
	if err := s.store.CreateTender(ctx, t); err != nil {
		return t, fmt.Errorf("service.Service.CreateTender: %w", err)
	}

	s.log.Info("tender created", zap.Stringer("tender_id", t.ID), zap.String("creator", t.CreatorUsername))
	return t, nil
}

// ListTenders возвращает тендеры по имени; пустой serviceTypes означает все типы.
func (s *Service) ListTenders(ctx context.Context, serviceTypes []models.ServiceType, page models.Page) ([]models.Tender, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	for _, st := range serviceTypes {
		if !models.ValidServiceType(st) {
			return nil, models.Invalid("service_type", fmt.Sprintf("unknown service type %q", st))
		}
	}

	tenders, err := s.store.ListTenders(ctx, models.TenderFilter{ServiceTypes: serviceTypes, Page: page})
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListTenders: %w", err)
	}
	return tenders, nil
}

// MyTenders возвращает тендеры, созданные пользователем. Пустой результат считается
// неизвестным пользователем.
func (s *Service) MyTenders(ctx context.Context, username string, page models.Page) ([]models.Tender, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if username == "" {
		return nil, models.ErrInvalidUser
	}

	tenders, err := s.store.ListTenders(ctx, models.TenderFilter{CreatorUsername: username, Page: page})
	if err != nil {
		return nil, fmt.Errorf("service.Service.MyTenders: %w", err)
	}
	if len(tenders) == 0 {
		return nil, models.ErrInvalidUser
	}
	return tenders, nil
}

func (s *Service) TenderStatus(ctx context.Context, tenderID, username string) (models.TenderStatus, error) {
	id, err := parseID("tenderId", tenderID)
	if err != nil {
		return "", err
	}

	t, err := s.store.GetTender(ctx, id)
	if err != nil {
		return "", notFound(err, models.ErrNoTender)
	}
	if !CanManageTender(t, username) {
		return "", models.ErrNotCreator
	}
	return t.Status, nil
}

func (s *Service) SetTenderStatus(ctx context.Context, tenderID, username, status string) (models.Tender, error) {
	next := models.TenderStatus(status)
	if !models.ValidTenderStatus(next) {
		return models.Tender{}, models.Invalid("status", "unknown tender status")
	}

	return s.mutateTender(ctx, tenderID, username, func(t *models.Tender) (ledger.Change, error) {
		t.Status = next
		return ledger.Bump(t.Version), nil
	})
}

func validateTenderPatch(p models.TenderPatch) error {
	if p.Name != nil {
		if err := validateText("name", *p.Name, models.MaxNameLength, true); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validateText("description", *p.Description, models.MaxDescriptionLength, false); err != nil {
			return err
		}
	}
	if p.ServiceType != nil && !models.ValidServiceType(*p.ServiceType) {
		return models.Invalid("serviceType", "unknown service type")
	}
	return nil
}

// EditTender применяет только переданные поля.
func (s *Service) EditTender(ctx context.Context, tenderID, username string, patch models.TenderPatch) (models.Tender, error) {
	if err := validateTenderPatch(patch); err != nil {
		return models.Tender{}, err
	}

	return s.mutateTender(ctx, tenderID, username, func(t *models.Tender) (ledger.Change, error) {
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.ServiceType != nil {
			t.ServiceType = *patch.ServiceType
		}
		return ledger.Bump(t.Version), nil
	})
}

// RollbackTender выставляет номер версии. Остальные поля не меняются.
func (s *Service) RollbackTender(ctx context.Context, tenderID, username string, version int) (models.Tender, error) {
	return s.mutateTender(ctx, tenderID, username, func(t *models.Tender) (ledger.Change, error) {
		return ledger.Rollback(t.Version, version)
	})
}

// mutateTender блокирует тендер, проверяет автора, применяет fn и сохраняет
// результат с проверкой версии в одной транзакции.
func (s *Service) mutateTender(ctx context.Context, tenderID, username string, fn func(t *models.Tender) (ledger.Change, error)) (models.Tender, error) {
	id, err := parseID("tenderId", tenderID)
	if err != nil {
		return models.Tender{}, err
	}

	var out models.Tender
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.store.LockTender(ctx, id)
		if err != nil {
			return notFound(err, models.ErrNoTender)
		}
		if !CanManageTender(t, username) {
			return models.ErrNotCreator
		}

		change, err := fn(&t)
		if err != nil {
			return err
		}
		change.Apply(&t.Version)

		if err := s.store.UpdateTender(ctx, t, change.From); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrVersionConflict) {
			s.log.Warn("tender version conflict", zap.Stringer("tender_id", id))
		}
		return models.Tender{}, fmt.Errorf("service.Service.mutateTender: %w", err)
	}

	s.log.Debug("tender updated", zap.Stringer("tender_id", out.ID), zap.Int("version", out.Version))
	return out, nil
}
