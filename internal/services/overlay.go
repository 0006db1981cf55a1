package services

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Overlay layout constants. The backdrop exists purely for legibility over
// arbitrary backgrounds.
const (
	overlayLineSpacing     = 1.65 // line height as a multiple of font size
	overlayBackdropPad     = 36.0 // padding around the text block, px
	overlayBackdropRadius  = 20.0
	overlayBackdropOpacity = 0.45
)

// OverlayRenderer rasterizes shaped, wrapped verse lines into transparent
// captions at the reel's target resolution.
type OverlayRenderer struct {
	width    int
	height   int
	fontSize float64
	face     font.Face

	// truetype faces cache glyphs and are not goroutine safe
	mu sync.Mutex
}

// NewOverlayRenderer loads the font fallback chain and returns a renderer.
// Font trouble never aborts a job: a failed preferred font falls back to the
// system font, and a failed system font falls back to the bundled Go sans.
func NewOverlayRenderer(width, height int, fontPath, fontFallback string, fontSize float64) *OverlayRenderer {
	face := resolveFace(fontPath, fontFallback, fontSize)
	return &OverlayRenderer{
		width:    width,
		height:   height,
		fontSize: fontSize,
		face:     face,
	}
}

func resolveFace(fontPath, fontFallback string, size float64) font.Face {
	for _, path := range []string{fontPath, fontFallback} {
		if path == "" {
			continue
		}
		face, err := loadFace(path, size)
		if err != nil {
			log.Printf("[Overlay] %v", &FontLoadError{Path: path, Err: err})
			continue
		}
		log.Printf("[Overlay] Using font %s", path)
		return face
	}

	// Bundled Go Regular always parses; rendering never aborts over fonts
	f, _ := truetype.Parse(goregular.TTF)
	log.Printf("[Overlay] All configured fonts failed, using bundled sans-serif")
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// Measure returns the rendered width of a display-ready string in pixels.
// Passed to the Shaper as its MeasureFunc so wrap decisions use the same
// face the raster is drawn with.
func (r *OverlayRenderer) Measure(s string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(font.MeasureString(r.face, s)) / 64.0
}

// MaxLineWidth is the widest a caption line may render, leaving a margin on
// both sides of the frame.
func (r *OverlayRenderer) MaxLineWidth() float64 {
	return float64(r.width) - 2*(overlayBackdropPad+24)
}

// Render draws the lines centered as a block over a translucent backdrop and
// writes a transparent PNG at the target resolution.
func (r *OverlayRenderer) Render(lines []string, outputPath string) error {
	if len(lines) == 0 {
		return fmt.Errorf("no lines to render")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(r.width, r.height)
	dc.SetFontFace(r.face)

	lineHeight := r.fontSize * overlayLineSpacing
	blockHeight := lineHeight * float64(len(lines))
	blockTop := (float64(r.height) - blockHeight) / 2

	maxWidth := 0.0
	for _, line := range lines {
		if w := float64(font.MeasureString(r.face, line)) / 64.0; w > maxWidth {
			maxWidth = w
		}
	}

	// Semi-transparent backdrop sized to the text block plus fixed padding
	dc.SetRGBA(0, 0, 0, overlayBackdropOpacity)
	dc.DrawRoundedRectangle(
		(float64(r.width)-maxWidth)/2-overlayBackdropPad,
		blockTop-overlayBackdropPad,
		maxWidth+2*overlayBackdropPad,
		blockHeight+2*overlayBackdropPad,
		overlayBackdropRadius,
	)
	dc.Fill()

	// High-contrast text, each line horizontally centered
	dc.SetRGB(1, 1, 1)
	centerX := float64(r.width) / 2
	for i, line := range lines {
		if line == "" {
			continue
		}
		y := blockTop + (float64(i)+0.5)*lineHeight
		dc.DrawStringAnchored(line, centerX, y, 0.5, 0.5)
	}

	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to write overlay %s: %w", outputPath, err)
	}
	return nil
}
