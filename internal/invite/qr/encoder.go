// Package qr encodes the invite payload into a scannable PNG matrix code.
package qr

import (
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"

	"guestpass/internal/invite/models"
	derrors "guestpass/pkg/domain-errors"
)

// ImageSize is the edge length of the rendered PNG in pixels.
const ImageSize = 512

// Encode serializes the payload to JSON and renders it as a square PNG with
// medium error correction. Encoding is deterministic: the same payload
// always yields identical bytes.
func Encode(payload models.QRPayload) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, derrors.Wrap(derrors.CodeRendering, "marshal QR payload", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, ImageSize)
	if err != nil {
		return nil, derrors.Wrap(derrors.CodeRendering, "encode QR image", err)
	}
	return png, nil
}
