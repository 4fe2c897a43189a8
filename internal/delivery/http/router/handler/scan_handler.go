package handler

import (
	"net/http"

	"tripwatch/internal/delivery/http/response"
	"tripwatch/internal/domain/entity"
	domainerrors "tripwatch/internal/domain/errors"
	"tripwatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ScanHandler handles tag-scan submission and confirmation polling.
type ScanHandler struct {
	scanUsecase usecase.ScanUsecase
}

// NewScanHandler creates a new ScanHandler instance
func NewScanHandler(scanUsecase usecase.ScanUsecase) *ScanHandler {
	return &ScanHandler{
		scanUsecase: scanUsecase,
	}
}

// PositionPayload is an optional device-reported position fix.
type PositionPayload struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	AccuracyM float64 `json:"accuracy_m" validate:"min=0"`
}

// SubmitScanRequest is the payload for one tag read.
type SubmitScanRequest struct {
	TagUID      string           `json:"tag_uid" validate:"required"`
	Description string           `json:"description" validate:"max=512"`
	Position    *PositionPayload `json:"position"`
}

// Submit runs the scan pipeline for one tag read.
func (h *ScanHandler) Submit(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid session ID")
	}

	var req SubmitScanRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_REQUEST", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &usecase.ScanInput{
		TagUID:      req.TagUID,
		Description: req.Description,
	}
	if req.Position != nil {
		input.Position = &entity.Position{
			Latitude:  req.Position.Latitude,
			Longitude: req.Position.Longitude,
			AccuracyM: req.Position.AccuracyM,
		}
	}

	result, err := h.scanUsecase.SubmitScan(c.Request().Context(), sessionID, input)
	if err != nil {
		return err
	}

	statusCode := http.StatusCreated
	message := "Scan processed"
	if result.Duplicate {
		statusCode = http.StatusOK
		message = "Duplicate scan suppressed"
	}

	return response.Success(c, statusCode, result, message)
}

// GetConfirmation returns the operator-visible state of a scan.
func (h *ScanHandler) GetConfirmation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid confirmation ID")
	}

	view, err := h.scanUsecase.GetConfirmation(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, view, "")
}

// DismissConfirmation closes a confirmation explicitly.
func (h *ScanHandler) DismissConfirmation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid confirmation ID")
	}

	if err := h.scanUsecase.DismissConfirmation(c.Request().Context(), id); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Confirmation dismissed")
}
