package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestpass/internal/invite/models"
	"guestpass/internal/invite/qr"
)

func testQRImage(t *testing.T) []byte {
	t.Helper()
	img, err := qr.Encode(models.QRPayload{
		GuestID:    "guest-1",
		InviteCode: "0d4caf01-57b9-4d49-a6c0-3d9af6781a9a",
		AccessCode: "123456",
		EventID:    "default",
	})
	require.NoError(t, err)
	return img
}

func baseInput(t *testing.T) Input {
	date := "2025-05-01"
	location := "Pier 27"
	return Input{
		GuestName:     "Jane Smith",
		EventName:     "Launch Party",
		EventDate:     &date,
		EventLocation: &location,
		InviteCode:    "0d4caf01-57b9-4d49-a6c0-3d9af6781a9a",
		AccessCode:    "123456",
		QRImage:       testQRImage(t),
	}
}

func TestCompose_ProducesPDF(t *testing.T) {
	out, err := Compose(baseInput(t))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output must start with a PDF header")
	assert.Contains(t, string(out), "/MediaBox [0 0 420.00 595.00]")
	assert.Contains(t, string(out), "/Count 1", "document must have exactly one page")
}

func TestCompose_OptionalLinesOmitted(t *testing.T) {
	in := baseInput(t)
	in.EventDate = nil
	in.EventLocation = nil

	out, err := Compose(in)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestCompose_PageSizeFixedForLongContent(t *testing.T) {
	in := baseInput(t)
	in.GuestName = strings.Repeat("Maximiliana Wolfeschlegelsteinhausen ", 8)
	location := strings.Repeat("Extremely Long Venue Name Boulevard ", 8)
	in.EventLocation = &location

	out, err := Compose(in)
	require.NoError(t, err)
	assert.Contains(t, string(out), "/MediaBox [0 0 420.00 595.00]",
		"long content must not resize the page")
	assert.Contains(t, string(out), "/Count 1")
}

func TestCompose_BadImageFails(t *testing.T) {
	in := baseInput(t)
	in.QRImage = []byte("not a png")

	_, err := Compose(in)
	assert.Error(t, err)
}
