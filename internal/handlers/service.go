package handlers

import (
	"context"

	"procurement/models"
)

// Service - операции над тендерами, предложениями и отзывами.
type Service interface {
	CreateTender(ctx context.Context, in models.NewTender) (models.Tender, error)
	ListTenders(ctx context.Context, serviceTypes []models.ServiceType, page models.Page) ([]models.Tender, error)
	MyTenders(ctx context.Context, username string, page models.Page) ([]models.Tender, error)
	TenderStatus(ctx context.Context, tenderID, username string) (models.TenderStatus, error)
	SetTenderStatus(ctx context.Context, tenderID, username, status string) (models.Tender, error)
	EditTender(ctx context.Context, tenderID, username string, patch models.TenderPatch) (models.Tender, error)
	RollbackTender(ctx context.Context, tenderID, username string, version int) (models.Tender, error)

	CreateBid(ctx context.Context, in models.NewBid) (models.Bid, error)
	MyBids(ctx context.Context, username string, page models.Page) ([]models.Bid, error)
	TenderBids(ctx context.Context, tenderID, username string, page models.Page) ([]models.Bid, error)
	BidStatus(ctx context.Context, bidID, username string) (models.BidStatus, error)
	SetBidStatus(ctx context.Context, bidID, username, status string) (models.Bid, error)
	EditBid(ctx context.Context, bidID, username string, patch models.BidPatch) (models.Bid, error)
	SubmitDecision(ctx context.Context, bidID, username, decision string) (models.Bid, error)
	Feedback(ctx context.Context, bidID, username, text string) (models.Bid, error)
	RollbackBid(ctx context.Context, bidID, username string, version int) (models.Bid, error)

	BidReviews(ctx context.Context, tenderID, authorUsername, requesterUsername string, page models.Page) ([]models.Review, error)
}
