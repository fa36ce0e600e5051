// Package pdf composes the single-page printable invite document.
//
// The page is a fixed 420x595 point sheet: heading, guest/event text block,
// then the QR image on a rounded panel near the bottom with a caption.
// Layout is absolute-positioned so content length never resizes the page.
package pdf

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	derrors "guestpass/pkg/domain-errors"
)

// Page geometry, in points.
const (
	PageWidth  = 420
	PageHeight = 595

	marginX     = 40
	headingY    = 60
	headingSize = 22
	bodySize    = 12
	lineSpacing = 24

	qrSize        = 220
	qrBottomY     = 90 // distance from page bottom to the image's bottom edge
	panelPadding  = 12
	panelRadius   = 8
	captionSize   = 11
	captionY      = 60 // distance from page bottom to the caption baseline
	captionWidth  = 240
	documentTitle = "GuestPass Invitation"
	captionText   = "Please present this QR code at check-in."
)

// Input carries everything the composer needs. Date and Location lines are
// omitted when nil.
type Input struct {
	GuestName     string
	EventName     string
	EventDate     *string
	EventLocation *string
	InviteCode    string
	AccessCode    string
	QRImage       []byte
}

// Compose renders the invite document and returns its bytes. Any layout or
// encoding fault surfaces as a rendering error.
func Compose(in Input) ([]byte, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", headingSize)
	doc.SetTextColor(28, 36, 79)
	doc.Text(marginX, headingY, documentTitle)

	doc.SetFont("Helvetica", "", bodySize)
	doc.SetTextColor(26, 26, 26)

	cursorY := headingY + lineSpacing*1.7
	line := func(s string) {
		doc.Text(marginX, cursorY, s)
		cursorY += lineSpacing
	}

	line("Guest: " + in.GuestName)
	line("Event: " + in.EventName)
	if in.EventDate != nil {
		line("Date: " + *in.EventDate)
	}
	if in.EventLocation != nil {
		line("Location: " + *in.EventLocation)
	}
	line("Invite Code: " + in.InviteCode)
	line("Access Code: " + in.AccessCode)

	// QR panel and image, centered horizontally near the page bottom.
	qrX := float64(PageWidth-qrSize) / 2
	qrY := float64(PageHeight - qrBottomY - qrSize)
	doc.SetFillColor(245, 247, 255)
	doc.RoundedRect(qrX-panelPadding, qrY-panelPadding,
		qrSize+2*panelPadding, qrSize+2*panelPadding, panelRadius, "1234", "F")

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("invite-qr", opts, bytes.NewReader(in.QRImage))
	doc.ImageOptions("invite-qr", qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	doc.SetFont("Helvetica", "", captionSize)
	doc.SetTextColor(77, 77, 77)
	doc.Text(float64(PageWidth-captionWidth)/2, PageHeight-captionY, captionText)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, derrors.Wrap(derrors.CodeRendering, "compose invite document", err)
	}
	return buf.Bytes(), nil
}
