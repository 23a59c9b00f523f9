package report

import (
	"bytes"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth   = 640
	marginX      = 40.0
	marginTop    = 48.0
	lineHeight   = 26.0
	amountColumn = imageWidth - marginX
)

var (
	bgColor     = color.RGBA{255, 255, 255, 255}
	textColor   = color.RGBA{30, 32, 36, 255}
	mutedColor  = color.RGBA{110, 115, 120, 255}
	ruleColor   = color.RGBA{200, 200, 200, 255}
	accentColor = color.RGBA{120, 40, 90, 255}
)

// ImageSummaryRenderer draws the summary as a printable PNG card.
type ImageSummaryRenderer struct {
	currencySymbol string
}

func NewImageSummaryRenderer(currencySymbol string) *ImageSummaryRenderer {
	return &ImageSummaryRenderer{currencySymbol: currencySymbol}
}

func (i *ImageSummaryRenderer) Render(r PlanReport) ([]byte, error) {
	lines := Lines(r, i.currencySymbol)
	height := int(marginTop + lineHeight*float64(len(lines)+4))

	dc := gg.NewContext(imageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	y := marginTop
	dc.SetColor(accentColor)
	dc.DrawStringAnchored(Title(r), marginX, y, 0, 0)
	y += lineHeight
	dc.SetColor(mutedColor)
	dc.DrawStringAnchored(DateLine(r), marginX, y, 0, 0)
	y += lineHeight / 2

	drawRule(dc, y)
	y += lineHeight

	for _, line := range lines {
		if line.Bold {
			dc.SetColor(textColor)
		} else {
			dc.SetColor(mutedColor)
		}
		dc.DrawStringAnchored(line.Label, marginX, y, 0, 0)
		dc.DrawStringAnchored(line.Amount, amountColumn, y, 1, 0)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRule(dc *gg.Context, y float64) {
	dc.SetColor(ruleColor)
	dc.SetLineWidth(1)
	dc.DrawLine(marginX, y, amountColumn, y)
	dc.Stroke()
}
