package summary

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas dimensions of the summary artifact.
const (
	CanvasWidth  = 800
	CanvasHeight = 600
)

// Stats is the snapshot a summary image is rendered from.
type Stats struct {
	Total         int64
	LastRefreshed string
	Ranked        []RankedCountry
}

// RankedCountry is one entry of the GDP ranking.
type RankedCountry struct {
	Name         string
	EstimatedGDP float64
}

// Render draws the fixed black-on-white layout and returns PNG bytes.
func Render(stats Stats) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}

	y := 20
	drawText(d, 20, y, fmt.Sprintf("Countries: %d", stats.Total))
	y += 30
	drawText(d, 20, y, fmt.Sprintf("Last refresh: %s", stats.LastRefreshed))
	y += 40
	drawText(d, 20, y, "Top 5 by estimated GDP:")
	y += 30
	for i, c := range stats.Ranked {
		drawText(d, 40, y, fmt.Sprintf("%d. %s - %.2f", i+1, c.Name, c.EstimatedGDP))
		y += 24
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode summary image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawText(d *font.Drawer, x, y int, text string) {
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
