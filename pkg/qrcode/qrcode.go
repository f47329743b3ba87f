package qrcode

import (
	"encoding/json"
	"fmt"
	"time"

	qr "github.com/skip2/go-qrcode"
)

// Payload is the content embedded in a document QR image.
type Payload struct {
	Code      string    `json:"code"`
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issued_at"`
	TrackPath string    `json:"track_path,omitempty"`
}

// Generator produces QR PNG images for document tracking codes.
type Generator struct {
	size int
}

// NewGenerator returns a generator rendering PNGs at the given pixel size.
func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = 256
	}
	return &Generator{size: size}
}

// RenderPNG encodes the payload as JSON and renders it into a PNG image.
func (g *Generator) RenderPNG(p Payload) ([]byte, error) {
	if p.Code == "" {
		return nil, fmt.Errorf("qr payload requires a code")
	}
	if p.IssuedAt.IsZero() {
		p.IssuedAt = time.Now().UTC()
	}
	content, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal qr payload: %w", err)
	}
	png, err := qr.Encode(string(content), qr.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr image: %w", err)
	}
	return png, nil
}
