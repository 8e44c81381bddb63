// Package qr produces the scannable fallback artifact used when no
// photograph could be acquired for a point of interest.
package qr

import (
	"fmt"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// Generate encodes payload into a QR image and writes it under dir as
// qr_{prefix}.png, overwriting any prior file at that path.
func Generate(payload, dir, prefix string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("qr_%s.png", prefix))
	if err := qrcode.WriteFile(payload, qrcode.Medium, 512, path); err != nil {
		return "", fmt.Errorf("encoding QR code: %w", err)
	}
	return path, nil
}
