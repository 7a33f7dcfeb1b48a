package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(slug string) ([]byte, error)
}

// DefaultQRGenerator encodes the guest ordering link of an event as a PNG.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(slug string) ([]byte, error) {
	link := fmt.Sprintf("%s/e/%s", strings.TrimRight(g.BaseURL, "/"), slug)
	return qrcode.Encode(link, qrcode.Medium, 256)
}
