package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/models"
)

type createBidRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TenderID    string `json:"tenderId"`
	AuthorType  string `json:"authorType"`
	AuthorID    string `json:"authorId"`
}

// CreateBidHandler обрабатывает POST /api/bids/new
func (h *Handler) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	var req createBidRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.serviceError(w, r, err)
		return
	}

	bid, err := h.svc.CreateBid(r.Context(), models.NewBid(req))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bid.View())
}

// GetUserBidsHandler обрабатывает GET /api/bids/my
func (h *Handler) GetUserBidsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePaginationParams(r, models.DefaultPage())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	bids, err := h.svc.MyBids(r.Context(), r.URL.Query().Get("username"), page)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, models.BidViews(bids))
}

// GetBidsForTenderHandler обрабатывает GET /api/bids/{tenderId}/list
func (h *Handler) GetBidsForTenderHandler(w http.ResponseWriter, r *http.Request) {
	username, err := requiredQuery(r, "username")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	page, err := parsePaginationParams(r, models.DefaultPage())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	bids, err := h.svc.TenderBids(r.Context(), chi.URLParam(r, "tenderId"), username, page)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, models.BidViews(bids))
}

// GetBidStatusHandler обрабатывает GET /api/bids/{bidId}/status
func (h *Handler) GetBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	username, err := requiredQuery(r, "username")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	status, err := h.svc.BidStatus(r.Context(), chi.URLParam(r, "bidId"), username)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

// UpdateBidStatusHandler обрабатывает PUT /api/bids/{bidId}/status
func (h *Handler) UpdateBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := requiredQuery(r, "status")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	username, err := requiredQuery(r, "username")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	bid, err := h.svc.SetBidStatus(r.Context(), chi.URLParam(r, "bidId"), username, status)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bid.View())
}

type editBidRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// EditBidHandler обрабатывает PATCH /api/bids/{bidId}/edit
func (h *Handler) EditBidHandler(w http.ResponseWriter, r *http.Request) {
	username, err := requiredQuery(r, "username")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var req editBidRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.serviceError(w, r, err)
		return
	}

	bid, err := h.svc.EditBid(r.Context(), chi.URLParam(r, "bidId"), username, models.BidPatch(req))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bid.View())
}

// SubmitBidDecisionHandler обрабатывает PUT /api/bids/{bidId}/submit_decision
func (h *Handler) SubmitBidDecisionHandler(w http.ResponseWriter, r *http.Request) {
	decision, err := requiredQuery(r, "decision")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	username, err := requiredQuery(r, "username")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	bid, err := h.svc.SubmitDecision(r.Context(), chi.URLParam(r, "bidId"), username, decision)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bid.View())
}

// CreateBidFeedbackHandler обрабатывает PUT /api/bids/{bidId}/feedback
func (h *Handler) CreateBidFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	feedback, err := requiredQuery(r, "bidFeedback")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	username, err := requiredQuery(r, "username")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	bid, err := h.svc.Feedback(r.Context(), chi.URLParam(r, "bidId"), username, feedback)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bid.View())
}

// RollbackBidHandler обрабатывает PUT /api/bids/{bidId}/rollback/{version}
func (h *Handler) RollbackBidHandler(w http.ResponseWriter, r *http.Request) {
	username, err := requiredQuery(r, "username")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	version, err := parseVersion(chi.URLParam(r, "version"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	bid, err := h.svc.RollbackBid(r.Context(), chi.URLParam(r, "bidId"), username, version)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bid.View())
}

// GetBidReviewsHandler обрабатывает GET /api/bids/{tenderId}/reviews
func (h *Handler) GetBidReviewsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePaginationParams(r, models.DefaultPage())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	query := r.URL.Query()
	reviews, err := h.svc.BidReviews(r.Context(),
		chi.URLParam(r, "tenderId"),
		query.Get("authorUsername"),
		query.Get("requesterUsername"),
		page,
	)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, models.ReviewViews(reviews))
}
