package dashboard

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	previewWidth  = 48
	previewHeight = 28
)

// renderThumbnailBytes decodes an encoded image and renders a terminal
// thumbnail from it.
func renderThumbnailBytes(content []byte, maxW, maxH int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("decode preview: %w", err)
	}
	return renderThumbnail(img, maxW, maxH), nil
}

// renderThumbnail downsamples an image to at most maxW columns by maxH rows
// and renders it with half-block cells, packing two pixel rows per line.
func renderThumbnail(img image.Image, maxW, maxH int) string {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return ""
	}

	cols, rows := fitThumbnail(srcW, srcH, maxW, maxH*2)

	var b strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top := sampleHex(img, bounds, x, y, cols, rows)
			bottom := top
			if y+1 < rows {
				bottom = sampleHex(img, bounds, x, y+1, cols, rows)
			}
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			b.WriteString(cell.Render("▀"))
		}
		if y+2 < rows {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// fitThumbnail scales source dimensions to fit the available cells while
// preserving aspect ratio.
func fitThumbnail(srcW, srcH, maxW, maxH int) (cols, rows int) {
	cols, rows = maxW, maxH
	if srcW*maxH > srcH*maxW {
		rows = srcH * maxW / srcW
	} else {
		cols = srcW * maxH / srcH
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// sampleHex nearest-neighbor samples the pixel for cell (x, y) and returns
// it as a hex color string.
func sampleHex(img image.Image, bounds image.Rectangle, x, y, cols, rows int) string {
	sx := bounds.Min.X + x*bounds.Dx()/cols
	sy := bounds.Min.Y + y*bounds.Dy()/rows
	r, g, b, _ := img.At(sx, sy).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
