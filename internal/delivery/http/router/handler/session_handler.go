// Package handler contains the HTTP handlers of the operator-facing API.
package handler

import (
	"net/http"

	"tripwatch/internal/delivery/http/response"
	domainerrors "tripwatch/internal/domain/errors"
	"tripwatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionHandler handles scan-session endpoints.
type SessionHandler struct {
	sessionUsecase usecase.SessionUsecase
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessionUsecase usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{
		sessionUsecase: sessionUsecase,
	}
}

// OpenSessionRequest is the payload for opening a scan session.
type OpenSessionRequest struct {
	GroupID  uuid.UUID `json:"group_id" validate:"required"`
	Template string    `json:"template" validate:"required"`
	Operator string    `json:"operator" validate:"required"`
}

// Open opens a scan session for a group.
func (h *SessionHandler) Open(c echo.Context) error {
	var req OpenSessionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_REQUEST", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.sessionUsecase.OpenSession(c.Request().Context(), req.GroupID, req.Template, req.Operator)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, session, "Scan session opened")
}

// Get returns an open scan session.
func (h *SessionHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid session ID")
	}

	session, err := h.sessionUsecase.GetSession(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, session, "")
}

// Close closes a scan session explicitly.
func (h *SessionHandler) Close(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid session ID")
	}

	if err := h.sessionUsecase.CloseSession(c.Request().Context(), id); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Scan session closed")
}
