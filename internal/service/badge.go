package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf/v2"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// SiteBadge is the printable check-in badge posted at a project site: the QR
// encodes the project reference scanned by the worker app.
type SiteBadge struct {
	ProjectName  string
	Reference    string
	RadiusMeters float64
}

// BadgePDF renders the badge as a single page PDF.
func BadgePDF(badge SiteBadge) ([]byte, error) {
	qrPNG, err := qrcode.Encode(badge.Reference, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}

	scaled, err := scalePNG(qrPNG, 512)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 24)
	pdf.CellFormat(0, 16, badge.ProjectName, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Check-in zone: %.0f m radius", badge.RadiusMeters), "", 1, "C", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(scaled))
	pdf.ImageOptions("qr", 55, 60, 100, 100, false, opts, 0, "")

	pdf.SetY(170)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, badge.Reference, "", 1, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("rendering badge pdf: %w", err)
	}

	return out.Bytes(), nil
}

// scalePNG resizes a PNG to size x size for crisp print output.
func scalePNG(data []byte, size int) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding qr png: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("encoding scaled png: %w", err)
	}

	return out.Bytes(), nil
}
