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

type newBidIDs struct {
	tender uuid.UUID
	author uuid.UUID
}

func validateNewBid(in models.NewBid) (newBidIDs, error) {
	var ids newBidIDs
	if err := validateText("name", in.Name, models.MaxNameLength, true); err != nil {
		return ids, err
	}
	if err := validateText("description", in.Description, models.MaxDescriptionLength, false); err != nil {
		return ids, err
	}
	if !models.ValidAuthorType(models.AuthorType(in.AuthorType)) {
		return ids, models.Invalid("authorType", "unknown author type")
	}

	var err error
	if ids.tender, err = parseID("tenderId", in.TenderID); err != nil {
		return ids, err
	}
	if ids.author, err = parseID("authorId", in.AuthorID); err != nil {
		return ids, err
	}
	return ids, nil
}

// CreateBid создает предложение от имени организации, за которую отвечает автор.
func (s *Service) CreateBid(ctx context.Context, in models.NewBid) (models.Bid, error) {
	ids, err := validateNewBid(in)
	if err != nil {
		return models.Bid{}, err
	}

	author, err := s.store.EmployeeByID(ctx, ids.author)
	if err != nil {
		return models.Bid{}, notFound(err, models.ErrInvalidUser)
	}
	if _, err := s.store.GetTender(ctx, ids.tender); err != nil {
		return models.Bid{}, notFound(err, models.ErrNoTender)
	}
	orgID, err := s.store.ResponsibleOrganization(ctx, author.ID)
	if err != nil {
		return models.Bid{}, notFound(err, models.ErrNotResponsible)
	}

	b := models.Bid{
		ID:             uuid.New(),
		Name:           in.Name,
		Description:    in.Description,
		Status:         models.BidCreated,
		Decision:       models.DecisionUnset,
		TenderID:       ids.tender,
		OrganizationID: orgID,
		AuthorType:     models.AuthorType(in.AuthorType),
		AuthorID:       author.ID,
		Version:        1,
		CreatedAt:      s.timestamp(),
	}
	if err := s.store.CreateBid(ctx, b); err != nil {
		return b, fmt.Errorf("service.Service.CreateBid: %w", err)
	}

	s.log.Info("bid created", zap.Stringer("bid_id", b.ID), zap.Stringer("tender_id", b.TenderID))
	return b, nil
}

// MyBids возвращает предложения, автором которых является пользователь.
func (s *Service) MyBids(ctx context.Context, username string, page models.Page) ([]models.Bid, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	e, err := s.employee(ctx, username)
	if err != nil {
		return nil, err
	}

	bids, err := s.store.ListBids(ctx, models.BidFilter{AuthorID: &e.ID, Page: page})
	if err != nil {
		return nil, fmt.Errorf("service.Service.MyBids: %w", err)
	}
	return bids, nil
}

// TenderBids возвращает предложения по тендеру. Доступно только создателю тендера.
func (s *Service) TenderBids(ctx context.Context, tenderID, username string, page models.Page) ([]models.Bid, error) {
	id, err := parseID("tenderId", tenderID)
	if err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	t, err := s.store.GetTender(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ErrNoTender)
	}
	if !CanManageTender(t, username) {
		return nil, models.ErrNotCreator
	}

	bids, err := s.store.ListBids(ctx, models.BidFilter{TenderID: &t.ID, Page: page})
	if err != nil {
		return nil, fmt.Errorf("service.Service.TenderBids: %w", err)
	}
	return bids, nil
}

func (s *Service) BidStatus(ctx context.Context, bidID, username string) (models.BidStatus, error) {
	id, err := parseID("bidId", bidID)
	if err != nil {
		return "", err
	}

	b, err := s.store.GetBid(ctx, id)
	if err != nil {
		return "", notFound(err, models.ErrNoBid)
	}
	if err := s.authorizeBid(ctx, b, username); err != nil {
		return "", err
	}
	return b.Status, nil
}

func (s *Service) SetBidStatus(ctx context.Context, bidID, username, status string) (models.Bid, error) {
	next := models.BidStatus(status)
	if !models.ValidBidStatus(next) {
		return models.Bid{}, models.Invalid("status", "unknown bid status")
	}

	return s.mutateBid(ctx, bidID, username, func(_ context.Context, b *models.Bid) (ledger.Change, error) {
		b.Status = next
		return ledger.Bump(b.Version), nil
	})
}

func validateBidPatch(p models.BidPatch) error {
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
	return nil
}

func (s *Service) EditBid(ctx context.Context, bidID, username string, patch models.BidPatch) (models.Bid, error) {
	if err := validateBidPatch(patch); err != nil {
		return models.Bid{}, err
	}

	return s.mutateBid(ctx, bidID, username, func(_ context.Context, b *models.Bid) (ledger.Change, error) {
		if patch.Name != nil {
			b.Name = *patch.Name
		}
		if patch.Description != nil {
			b.Description = *patch.Description
		}
		return ledger.Bump(b.Version), nil
	})
}

// SubmitDecision сохраняет решение по предложению. Отклонение отменяет предложение.
func (s *Service) SubmitDecision(ctx context.Context, bidID, username, decision string) (models.Bid, error) {
	d := models.Decision(decision)
	if !models.ValidDecision(d) {
		return models.Bid{}, models.Invalid("decision", "must be Approved or Rejected")
	}

	b, err := s.mutateBid(ctx, bidID, username, func(_ context.Context, b *models.Bid) (ledger.Change, error) {
		b.Decision = d
		if d == models.DecisionRejected {
			b.Status = models.BidCanceled
		}
		return ledger.Bump(b.Version), nil
	})
	if err != nil {
		return b, err
	}

	s.log.Info("bid decision submitted", zap.Stringer("bid_id", b.ID), zap.String("decision", string(d)))
	return b, nil
}

// Feedback добавляет отзыв к предложению и поднимает его версию.
func (s *Service) Feedback(ctx context.Context, bidID, username, text string) (models.Bid, error) {
	if err := validateText("bidFeedback", text, models.MaxReviewLength, true); err != nil {
		return models.Bid{}, err
	}

	return s.mutateBid(ctx, bidID, username, func(ctx context.Context, b *models.Bid) (ledger.Change, error) {
		r := models.Review{
			ID:          uuid.New(),
			Description: text,
			BidID:       b.ID,
			CreatedAt:   s.timestamp(),
		}
		if err := s.store.CreateReview(ctx, r); err != nil {
			return ledger.Change{}, err
		}
		return ledger.Bump(b.Version), nil
	})
}

// RollbackBid выставляет номер версии. Остальные поля не меняются.
func (s *Service) RollbackBid(ctx context.Context, bidID, username string, version int) (models.Bid, error) {
	return s.mutateBid(ctx, bidID, username, func(_ context.Context, b *models.Bid) (ledger.Change, error) {
		return ledger.Rollback(b.Version, version)
	})
}

func (s *Service) mutateBid(ctx context.Context, bidID, username string, fn func(ctx context.Context, b *models.Bid) (ledger.Change, error)) (models.Bid, error) {
	id, err := parseID("bidId", bidID)
	if err != nil {
		return models.Bid{}, err
	}

	var out models.Bid
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.store.LockBid(ctx, id)
		if err != nil {
			return notFound(err, models.ErrNoBid)
		}
		if err := s.authorizeBid(ctx, b, username); err != nil {
			return err
		}

		change, err := fn(ctx, &b)
		if err != nil {
			return err
		}
		change.Apply(&b.Version)

		if err := s.store.UpdateBid(ctx, b, change.From); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrVersionConflict) {
			s.log.Warn("bid version conflict", zap.Stringer("bid_id", id))
		}
		return models.Bid{}, fmt.Errorf("service.Service.mutateBid: %w", err)
	}

	s.log.Debug("bid updated", zap.Stringer("bid_id", out.ID), zap.Int("version", out.Version))
	return out, nil
}
