package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type DefaultQRGenerator struct {
	BaseURL string
}

// Generate encodes the public tracking page of the order.
func (g DefaultQRGenerator) Generate(orderID int64) ([]byte, error) {
	qrData := fmt.Sprintf("%s/orders/%d/track", strings.TrimRight(g.BaseURL, "/"), orderID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}

func QRLink(orderID int64) string {
	return fmt.Sprintf("/orders/%d/qrcode", orderID)
}

var _ QRGenerator = DefaultQRGenerator{}
