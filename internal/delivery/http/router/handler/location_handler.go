package handler

import (
	"net/http"

	"tripwatch/internal/delivery/http/response"
	domainerrors "tripwatch/internal/domain/errors"
	"tripwatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// LocationHandler handles the read side of the pipeline.
type LocationHandler struct {
	locationUsecase usecase.LocationUsecase
}

// NewLocationHandler creates a new LocationHandler instance
func NewLocationHandler(locationUsecase usecase.LocationUsecase) *LocationHandler {
	return &LocationHandler{
		locationUsecase: locationUsecase,
	}
}

// LatestChildLocation returns the most recent location event for a child.
func (h *LocationHandler) LatestChildLocation(c echo.Context) error {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid child ID")
	}

	event, err := h.locationUsecase.LatestChildLocation(c.Request().Context(), childID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, event, "")
}

// GroupRoster lists the children of a group with guardian contact info.
func (h *LocationHandler) GroupRoster(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid group ID")
	}

	entries, err := h.locationUsecase.GroupRoster(c.Request().Context(), groupID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, entries, "")
}

// ChildTagCode renders the printable fallback code for a child's tag.
func (h *LocationHandler) ChildTagCode(c echo.Context) error {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid child ID")
	}

	code, err := h.locationUsecase.ChildTagCode(c.Request().Context(), childID)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/png", code)
}
