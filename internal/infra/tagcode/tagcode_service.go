// Package tagcode renders printable fallback codes for wristband tags.
package tagcode

import (
	"encoding/json"
	"fmt"

	"tripwatch/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

type tagCodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// TagCodeData represents the payload encoded into the printed code.
type TagCodeData struct {
	TagUID string `json:"tag_uid"`
	Type   string `json:"type"`
}

// NewTagCodeService creates a new tag code service instance
func NewTagCodeService(size int, errorCorrectionLevel string) service.TagCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &tagCodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateTagCode returns a PNG image encoding the tag UID.
func (s *tagCodeService) GenerateTagCode(tagUID string) ([]byte, error) {
	data := TagCodeData{
		TagUID: tagUID,
		Type:   "wristband",
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tag code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseTagCode parses scanned code data and returns the tag UID. Used by the
// operator app's camera fallback.
func ParseTagCode(raw string) (string, error) {
	var data TagCodeData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal tag code data: %w", err)
	}

	if data.Type != "wristband" {
		return "", fmt.Errorf("invalid tag code type: %s", data.Type)
	}
	if data.TagUID == "" {
		return "", fmt.Errorf("tag code has no tag UID")
	}

	return data.TagUID, nil
}
