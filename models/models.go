package models

import (
	"time"

	"github.com/google/uuid"
)

// Сущность Тендера
type Tender struct {
	ID              uuid.UUID    `db:"id"`
	Name            string       `db:"name"`
	Description     string       `db:"description"`
	ServiceType     ServiceType  `db:"service_type"`
	Status          TenderStatus `db:"status"`
	OrganizationID  uuid.UUID    `db:"organization_id"`
	Version         int          `db:"version"`
	CreatorUsername string       `db:"creator_username"`
	CreatedAt       time.Time    `db:"created_at"`
}

// Сущность Предложения
type Bid struct {
	ID             uuid.UUID  `db:"id"`
	Name           string     `db:"name"`
	Description    string     `db:"description"`
	Status         BidStatus  `db:"status"`
	Decision       Decision   `db:"decision"`
	TenderID       uuid.UUID  `db:"tender_id"`
	OrganizationID uuid.UUID  `db:"organization_id"`
	AuthorType     AuthorType `db:"author_type"`
	AuthorID       uuid.UUID  `db:"author_id"`
	Version        int        `db:"version"`
	CreatedAt      time.Time  `db:"created_at"`
}

// Сущность Отзыва
type Review struct {
	ID          uuid.UUID `db:"id"`
	Description string    `db:"description"`
	BidID       uuid.UUID `db:"bid_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// Сущность Пользователя
type Employee struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
}

// Сущность Организации
type Organization struct {
	ID          uuid.UUID        `db:"id"`
	Name        string           `db:"name"`
	Description string           `db:"description"`
	Type        OrganizationType `db:"type"`
	CreatedAt   time.Time        `db:"created_at"`
}

// Связь "сотрудник отвечает за организацию"
type OrganizationResponsible struct {
	ID             uuid.UUID `db:"id"`
	OrganizationID uuid.UUID `db:"organization_id"`
	UserID         uuid.UUID `db:"user_id"`
}

// Page задает срез упорядоченного списка. Limit == NoLimit означает "без ограничения",
// Limit == 0 дает пустую страницу.
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultLimit = 5
	NoLimit      = -1
)

// AllPages возвращает страницу без ограничения по количеству.
func AllPages() Page {
	return Page{Limit: NoLimit}
}

// DefaultPage используется, когда limit/offset не переданы.
func DefaultPage() Page {
	return Page{Limit: DefaultLimit}
}

func (p Page) Validate() error {
	if p.Limit < 0 && p.Limit != NoLimit {
		return Invalid("limit", "must not be negative")
	}
	if p.Offset < 0 {
		return Invalid("offset", "must not be negative")
	}
	return nil
}

// TenderFilter описывает выборку тендеров.
type TenderFilter struct {
	ServiceTypes    []ServiceType
	CreatorUsername string
	Page            Page
}

// BidFilter описывает выборку предложений.
type BidFilter struct {
	TenderID *uuid.UUID
	AuthorID *uuid.UUID
	Page     Page
}

// TenderPatch содержит только переданные при редактировании поля.
type TenderPatch struct {
	Name        *string
	Description *string
	ServiceType *ServiceType
}

// BidPatch содержит только переданные при редактировании поля.
type BidPatch struct {
	Name        *string
	Description *string
}

// NewTender - входные данные для создания тендера.
type NewTender struct {
	Name            string
	Description     string
	ServiceType     string
	OrganizationID  string
	CreatorUsername string
}

// NewBid - входные данные для создания предложения.
type NewBid struct {
	Name        string
	Description string
	TenderID    string
	AuthorType  string
	AuthorID    string
}
