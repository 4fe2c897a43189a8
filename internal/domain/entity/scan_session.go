package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Placeholder tokens substituted by Render. Templates are plain text; no
// expression evaluation happens beyond these literal replacements.
const (
	TemplateChild       = "{child}"
	TemplateTime        = "{time}"
	TemplateLocation    = "{location}"
	TemplateDescription = "{description}"
)

// LocationUnavailableText is rendered in place of {location} for degraded events.
const LocationUnavailableText = "location unavailable"

// ScanSession binds a trip group to an operator-configured message template.
// Individual tag scans are interpreted in the context of exactly one session.
// Sessions are ephemeral; they live in the session store for the duration of
// a scanning round and are never persisted to the event database.
type ScanSession struct {
	ID        uuid.UUID `json:"id"`         // The Global Unique Identifier (GUID) for the session.
	GroupID   uuid.UUID `json:"group_id"`   // The trip group scans are admitted against.
	Template  string    `json:"template"`   // The guardian message template, immutable after open.
	Operator  string    `json:"operator"`   // The chaperone who opened the session.
	CreatedAt time.Time `json:"created_at"` // Timestamp of when the session was opened.
}

// Render substitutes event data into the session's template. Degraded events
// render {location} as LocationUnavailableText; an empty address falls back to
// raw coordinates.
func (s *ScanSession) Render(child *Child, event *LocationEvent) string {
	location := LocationUnavailableText
	if !event.Degraded {
		location = event.Address
		if location == "" && event.Position != nil {
			location = formatCoordinates(event.Position)
		}
	}

	replacer := strings.NewReplacer(
		TemplateChild, child.FullName,
		TemplateTime, event.CapturedAt.Format("15:04 02 Jan 2006"),
		TemplateLocation, location,
		TemplateDescription, event.Description,
	)

	return replacer.Replace(s.Template)
}

func formatCoordinates(p *Position) string {
	var b strings.Builder
	b.WriteString(formatFloat(p.Latitude))
	b.WriteString(", ")
	b.WriteString(formatFloat(p.Longitude))

	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
