package service

import (
	"context"
	"fmt"

	"procurement/models"
)

// BidReviews возвращает отзывы на первое предложение тендера.
//
// Запрашивающий должен отвечать за организацию предложения, а authorUsername
// должен совпадать с автором предложения.
func (s *Service) BidReviews(ctx context.Context, tenderID, authorUsername, requesterUsername string, page models.Page) ([]models.Review, error) {
	if authorUsername == "" {
		return nil, models.Invalid("authorUsername", "is required")
	}
	if requesterUsername == "" {
		return nil, models.Invalid("requesterUsername", "is required")
	}
	id, err := parseID("tenderId", tenderID)
	if err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	bid, err := s.store.FirstBidForTender(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ErrNoBid)
	}
	if err := s.authorizeBid(ctx, bid, requesterUsername); err != nil {
		return nil, err
	}

	author, err := s.store.EmployeeByID(ctx, bid.AuthorID)
	if err != nil {
		return nil, notFound(err, models.ErrAuthorMismatch)
	}
	if author.Username != authorUsername {
		return nil, models.ErrAuthorMismatch
	}

	reviews, err := s.store.ListReviews(ctx, bid.ID, page)
	if err != nil {
		return nil, fmt.Errorf("service.Service.BidReviews: %w", err)
	}
	if len(reviews) == 0 {
		return nil, models.ErrNoReviews
	}
	return reviews, nil
}
