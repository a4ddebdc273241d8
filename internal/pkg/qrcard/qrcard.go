// Package qrcard renders the QR code shown on a donor's virtual card.
package qrcard

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels
const DefaultSize = 256

const payloadPrefix = "HEMOPE:DOADOR:"

// Payload returns the text encoded in a donor card QR code.
func Payload(codigoDoador string) string {
	return payloadPrefix + strings.TrimSpace(codigoDoador)
}

// PNG encodes the donor code as a PNG QR image of the given size.
func PNG(codigoDoador string, size int) ([]byte, error) {
	if strings.TrimSpace(codigoDoador) == "" {
		return nil, errors.New("donor code is empty")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(Payload(codigoDoador), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
