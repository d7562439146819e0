package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/models"
)

type createTenderRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	ServiceType     string `json:"serviceType"`
	OrganizationID  string `json:"organizationId"`
	CreatorUsername string `json:"creatorUsername"`
}

// CreateTenderHandler обрабатывает POST /api/tenders/new
func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	var req createTenderRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.serviceError(w, r, err)
		return
	}

	tender, err := h.svc.CreateTender(r.Context(), models.NewTender(req))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tender.View())
}

// GetTendersHandler обрабатывает GET /api/tenders. Без limit возвращаются все тендеры.
func (h *Handler) GetTendersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePaginationParams(r, models.AllPages())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var serviceTypes []models.ServiceType
	for _, v := range r.URL.Query()["service_type"] {
		serviceTypes = append(serviceTypes, models.ServiceType(v))
	}

	tenders, err := h.svc.ListTenders(r.Context(), serviceTypes, page)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, models.TenderViews(tenders))
}

// GetUserTendersHandler обрабатывает GET /api/tenders/my
func (h *Handler) GetUserTendersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePaginationParams(r, models.DefaultPage())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	tenders, err := h.svc.MyTenders(r.Context(), r.URL.Query().Get("username"), page)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, models.TenderViews(tenders))
}

// GetTenderStatusHandler обрабатывает GET /api/tenders/{tenderId}/status
func (h *Handler) GetTenderStatusHandler(w http.ResponseWriter, r *http.Request) {
	username, err := requiredQuery(r, "username")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	status, err := h.svc.TenderStatus(r.Context(), chi.URLParam(r, "tenderId"), username)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

// UpdateTenderStatusHandler обрабатывает PUT /api/tenders/{tenderId}/status
func (h *Handler) UpdateTenderStatusHandler(w http.ResponseWriter, r *http.Request) {
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

	tender, err := h.svc.SetTenderStatus(r.Context(), chi.URLParam(r, "tenderId"), username, status)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tender.View())
}

type editTenderRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	ServiceType *models.ServiceType `json:"serviceType"`
}

// EditTenderHandler обрабатывает PATCH /api/tenders/{tenderId}/edit
func (h *Handler) EditTenderHandler(w http.ResponseWriter, r *http.Request) {
	username, err := requiredQuery(r, "username")
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var req editTenderRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.serviceError(w, r, err)
		return
	}

	tender, err := h.svc.EditTender(r.Context(), chi.URLParam(r, "tenderId"), username, models.TenderPatch(req))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tender.View())
}

// RollbackTenderHandler обрабатывает PUT /api/tenders/{tenderId}/rollback/{version}
func (h *Handler) RollbackTenderHandler(w http.ResponseWriter, r *http.Request) {
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

	tender, err := h.svc.RollbackTender(r.Context(), chi.URLParam(r, "tenderId"), username, version)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tender.View())
}
