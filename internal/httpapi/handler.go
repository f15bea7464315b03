package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/log"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/nikolayk812/voiceshop/internal/service"
	"github.com/nikolayk812/voiceshop/internal/tool"
	"github.com/sirupsen/logrus"
)

const maxRequestBodySize = 1 << 20

type Handler struct {
	shop     *service.Shop
	tools    *tool.Registry
	sessions port.SessionStore
	locks    *sessionLocks
}

func NewHandler(shop *service.Shop, tools *tool.Registry, sessions port.SessionStore) (*Handler, error) {
	if shop == nil {
		return nil, fmt.Errorf("shop is nil")
	}
	if tools == nil {
		return nil, fmt.Errorf("tools is nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("sessions is nil")
	}

	return &Handler{
		shop:     shop,
		tools:    tools,
		sessions: sessions,
		locks:    newSessionLocks(),
	}, nil
}

type ToolDTO struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type CreateSessionRequestDTO struct {
	CustomerName string `json:"customer_name"`
}

type CartLineDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	LineTotal string `json:"line_total"`
}

type SessionDTO struct {
	ID           string        `json:"id"`
	CustomerName string        `json:"customer_name,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	Cart         []CartLineDTO `json:"cart"`
	CartTotal    string        `json:"cart_total"`
	OrderIDs     []string      `json:"order_ids"`
}

type ToolResultDTO struct {
	Result string `json:"result"`
}

func (h *Handler) ListTools(w http.ResponseWriter, _ *http.Request) {
	tools := h.tools.Tools()

	out := make([]ToolDTO, 0, len(tools))
	for _, t := range tools {
		out = append(out, ToolDTO{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequestDTO
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	session := h.shop.NewSession(req.CustomerName)
	if err := h.sessions.Save(r.Context(), session); err != nil {
		h.storageFailure(w, session.ID, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.sessionDTO(session))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	unlock, ok := h.lockSession(w, r, sessionID)
	if !ok {
		return
	}
	defer unlock()

	session, ok := h.loadSession(w, r, sessionID)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, h.sessionDTO(session))
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	unlock, ok := h.lockSession(w, r, sessionID)
	if !ok {
		return
	}
	defer unlock()

	deleted, err := h.sessions.Delete(r.Context(), sessionID)
	if err != nil {
		h.storageFailure(w, sessionID, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "session_not_found", "session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// InvokeTool runs one tool call; calls on the same session are serialized.
func (h *Handler) InvokeTool(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	toolName := chi.URLParam(r, "toolName")

	var args tool.Args
	if err := decodeBody(r, &args); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	unlock, ok := h.lockSession(w, r, sessionID)
	if !ok {
		return
	}
	defer unlock()

	session, ok := h.loadSession(w, r, sessionID)
	if !ok {
		return
	}

	result, err := h.tools.Invoke(r.Context(), &session, toolName, args)
	switch {
	case errors.Is(err, tool.ErrUnknownTool):
		respondError(w, http.StatusNotFound, "unknown_tool", fmt.Sprintf("tool %s is not registered", toolName))
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, "invalid_arguments", err.Error())
		return
	}

	if err := h.sessions.Save(r.Context(), session); err != nil {
		h.storageFailure(w, sessionID, err)
		return
	}

	respondJSON(w, http.StatusOK, ToolResultDTO{Result: result})
}

func (h *Handler) lockSession(w http.ResponseWriter, r *http.Request, sessionID string) (func(), bool) {
	unlock, err := h.locks.lock(r.Context(), sessionID)
	if err != nil {
		log.With("http").WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err,
		}).Warn("session lock wait abandoned")

		respondError(w, http.StatusServiceUnavailable, "session_busy", "session is busy, try again")
		return nil, false
	}

	return unlock, true
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request, sessionID string) (domain.Session, bool) {
	session, err := h.sessions.Get(r.Context(), sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		respondError(w, http.StatusNotFound, "session_not_found", "session not found")
		return domain.Session{}, false
	}
	if err != nil {
		h.storageFailure(w, sessionID, err)
		return domain.Session{}, false
	}

	return session, true
}

func (h *Handler) storageFailure(w http.ResponseWriter, sessionID string, err error) {
	log.With("http").WithFields(logrus.Fields{
		"session_id": sessionID,
		"error":      err,
	}).Error("session store failure")

	respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "session storage is unavailable")
}

func (h *Handler) sessionDTO(session domain.Session) SessionDTO {
	view := h.shop.CartView(&session)

	dto := SessionDTO{
		ID:           session.ID,
		CustomerName: session.CustomerName,
		StartedAt:    session.StartedAt,
		Cart:         make([]CartLineDTO, 0, len(view.Lines)),
		CartTotal:    view.Total.String(),
		OrderIDs:     make([]string, 0, len(session.Orders)),
	}
	for _, l := range view.Lines {
		dto.Cart = append(dto.Cart, CartLineDTO{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			Size:      l.Size,
			LineTotal: l.LineTotal.String(),
		})
	}
	for _, o := range session.Orders {
		dto.OrderIDs = append(dto.OrderIDs, o.ID)
	}

	return dto
}

// decodeBody decodes an optional JSON body; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
