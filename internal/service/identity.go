package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"procurement/models"
)

// CanManageTender сообщает, может ли пользователь читать статус и менять тендер.
func CanManageTender(t models.Tender, username string) bool {
	return username != "" && t.CreatorUsername == username
}

func (s *Service) employee(ctx context.Context, username string) (models.Employee, error) {
	if username == "" {
		return models.Employee{}, models.ErrInvalidUser
	}
	e, err := s.store.EmployeeByUsername(ctx, username)
	if err != nil {
		return e, notFound(err, models.ErrInvalidUser)
	}
	return e, nil
}

// authorizeBid проверяет, что пользователь существует и отвечает за организацию предложения.
func (s *Service) authorizeBid(ctx context.Context, bid models.Bid, username string) error {
	e, err := s.employee(ctx, username)
	if err != nil {
		return err
	}
	ok, err := s.store.IsResponsible(ctx, e.ID, bid.OrganizationID)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrNotResponsible
	}
	return nil
}

// RegisterEmployee добавляет сотрудника в справочник.
func (s *Service) RegisterEmployee(ctx context.Context, username, firstName, lastName string) (models.Employee, error) {
	if err := validateText("username", username, models.MaxUsernameLength, true); err != nil {
		return models.Employee{}, err
	}
	e := models.Employee{
		ID:        uuid.New(),
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.store.CreateEmployee(ctx, &e); err != nil {
		return e, fmt.Errorf("service.Service.RegisterEmployee: %w", err)
	}
	return e, nil
}

// RegisterOrganization добавляет организацию и назначает ответственных.
func (s *Service) RegisterOrganization(ctx context.Context, name string, typ models.OrganizationType, responsible ...uuid.UUID) (models.Organization, error) {
	if err := validateText("name", name, models.MaxNameLength, true); err != nil {
		return models.Organization{}, err
	}
	if !models.ValidOrganizationType(typ) {
		return models.Organization{}, models.Invalid("type", "unknown organization type")
	}

	o := models.Organization{ID: uuid.New(), Name: name, Type: typ}
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateOrganization(ctx, &o); err != nil {
			return err
		}
		for _, userID := range responsible {
			edge := models.OrganizationResponsible{ID: uuid.New(), OrganizationID: o.ID, UserID: userID}
			if err := s.store.AddResponsible(ctx, edge); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return o, fmt.Errorf("service.Service.RegisterOrganization: %w", err)
	}
	return o, nil
}
