package tagcode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTagCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewTagCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, service)
		})
	}
}

func TestTagCodeService_GenerateTagCode(t *testing.T) {
	service := NewTagCodeService(256, "M")

	pngBytes, err := service.GenerateTagCode("04:A2:19:B3")
	require.NoError(t, err)
	assert.NotEmpty(t, pngBytes)

	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, pngBytes[:4])
}

func TestParseTagCode(t *testing.T) {
	payload, err := json.Marshal(TagCodeData{TagUID: "04:A2:19:B3", Type: "wristband"})
	require.NoError(t, err)

	tagUID, err := ParseTagCode(string(payload))
	require.NoError(t, err)
	assert.Equal(t, "04:A2:19:B3", tagUID)
}

func TestParseTagCode_InvalidType(t *testing.T) {
	payload, err := json.Marshal(TagCodeData{TagUID: "04:A2:19:B3", Type: "subscription"})
	require.NoError(t, err)

	_, err = ParseTagCode(string(payload))
	assert.ErrorContains(t, err, "invalid tag code type")
}

func TestParseTagCode_Malformed(t *testing.T) {
	_, err := ParseTagCode("not json")
	assert.Error(t, err)

	payload, err := json.Marshal(TagCodeData{Type: "wristband"})
	require.NoError(t, err)

	_, err = ParseTagCode(string(payload))
	assert.ErrorContains(t, err, "no tag UID")
}
