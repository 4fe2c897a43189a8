package service

// TagCodeService renders a printable fallback code for a wristband tag, used
// when a reader cannot power the NFC chip.
type TagCodeService interface {
	// GenerateTagCode returns a PNG image encoding the tag UID.
	GenerateTagCode(tagUID string) ([]byte, error)
}
