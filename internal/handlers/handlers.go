package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"procurement/models"
)

const maxBodySize = 1 << 20

// Тексты ошибок, возвращаемые в поле reason.
const (
	reasonBadRequest   = "Неверный формат запроса или его параметры."
	reasonUnauthorized = "Пользователь не существует или некорректен."
	reasonForbidden    = "Недостаточно прав для выполнения действия."
	reasonNoTender     = "Тендер не найден"
	reasonNoBid        = "Предложение не найдено"
	reasonNoReviews    = "Отзывы не найдены"
	reasonNotFound     = "Не найдено"
)

// Handler оборачивает Service для обработки HTTP запросов
type Handler struct {
	svc Service
	log *zap.Logger
}

// NewHandler создает новый Handler
func NewHandler(svc Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type errorResponse struct {
	Reason string `json:"reason"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, reason string) {
	h.writeJSON(w, status, errorResponse{Reason: reason})
}

// serviceError сопоставляет ошибку сервиса с кодом ответа.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		h.errorResponse(w, http.StatusBadRequest, reasonBadRequest)
	case errors.Is(err, models.ErrUnauthorized):
		h.errorResponse(w, http.StatusUnauthorized, reasonUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		h.errorResponse(w, http.StatusForbidden, reasonForbidden)
	case errors.Is(err, models.ErrNoTender):
		h.errorResponse(w, http.StatusNotFound, reasonNoTender)
	case errors.Is(err, models.ErrNoBid):
		h.errorResponse(w, http.StatusNotFound, reasonNoBid)
	case errors.Is(err, models.ErrNoReviews):
		h.errorResponse(w, http.StatusNotFound, reasonNoReviews)
	case errors.Is(err, models.ErrNotFound):
		h.errorResponse(w, http.StatusNotFound, reasonNotFound)
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody читает JSON тело запроса в dst, запрещая неизвестные поля.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return models.Invalid("body", err.Error())
	}
	return nil
}

// parsePaginationParams парсит limit и offset из query.
// Если limit не передан, используется def.Limit.
func parsePaginationParams(r *http.Request, def models.Page) (models.Page, error) {
	page := def
	query := r.URL.Query()

	if s := query.Get("limit"); s != "" {
		l, err := strconv.Atoi(s)
		if err != nil || l < 0 {
			return page, models.Invalid("limit", "must be a non-negative integer")
		}
		page.Limit = l
	}
	if s := query.Get("offset"); s != "" {
		o, err := strconv.Atoi(s)
		if err != nil || o < 0 {
			return page, models.Invalid("offset", "must be a non-negative integer")
		}
		page.Offset = o
	}
	return page, nil
}

// requiredQuery возвращает обязательный query параметр.
func requiredQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", models.Invalid(name, "is required")
	}
	return v, nil
}

// parseVersion ограничивает версию диапазоном INTEGER в Postgres.
func parseVersion(raw string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, models.Invalid("version", "must be a 32-bit integer")
	}
	return int(v), nil
}
