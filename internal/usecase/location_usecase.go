package usecase

import (
	"context"

	"tripwatch/internal/domain/entity"

	"github.com/google/uuid"
)

// RosterEntry pairs a child with its guardian contact for operator visibility.
type RosterEntry struct {
	Child    *entity.Child    `json:"child"`
	Guardian *entity.Guardian `json:"guardian"`
}

// LocationUsecase exposes the read side of the pipeline to the UI layer.
type LocationUsecase interface {
	// LatestChildLocation returns the most recent location event for a
	// child. Outside every enrollment window the stored events are withheld:
	// they must not be surfaced as live.
	LatestChildLocation(ctx context.Context, childID uuid.UUID) (*entity.LocationEvent, error)

	// GroupRoster lists the children of a group with guardian contact info.
	GroupRoster(ctx context.Context, groupID uuid.UUID) ([]*RosterEntry, error)

	// ChildTagCode renders the printable fallback code for a child's tag.
	ChildTagCode(ctx context.Context, childID uuid.UUID) ([]byte, error)
}
