// Copyright 2025 BrandForge
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestrator

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"brandforge/platform/shared/types"
)

const (
	textPadding    = 30
	jpegQuality    = 90
	scrimAlpha     = 180
	nameDivisor    = 25 // product name size relative to width
	messageDivisor = 35 // message size relative to width
)

// CreativeSpec describes one final creative to compose.
type CreativeSpec struct {
	Ratio       types.AspectRatio
	ProductName string
	Message     string
}

// Renderer composes a final creative from a base image.
type Renderer interface {
	Render(base []byte, spec CreativeSpec) ([]byte, error)
}

// CreativeEngine is the default Renderer. It resizes the base image to
// fill the target ratio, center-crops the overflow, darkens the bottom
// band and overlays the campaign text. Safe for concurrent use.
type CreativeEngine struct {
	nameFont    *opentype.Font
	messageFont *opentype.Font
}

// NewCreativeEngine parses the embedded typefaces once.
func NewCreativeEngine() (*CreativeEngine, error) {
	nameFont, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse title font: %w", err)
	}
	messageFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse body font: %w", err)
	}
	return &CreativeEngine{nameFont: nameFont, messageFont: messageFont}, nil
}

// Render produces the finished JPEG creative.
func (e *CreativeEngine) Render(base []byte, spec CreativeSpec) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(base))
	if err != nil {
		return nil, fmt.Errorf("decode base image: %w", err)
	}

	width, height := spec.Ratio.Dimensions()
	canvas := scaleToFill(src, width, height)

	// bottom scrim keeps the message legible over any base image
	overlayHeight := height / 6
	scrim := image.Rect(0, height-overlayHeight, width, height)
	stddraw.DrawMask(canvas, scrim,
		image.NewUniform(color.Black), image.Point{},
		image.NewUniform(color.Alpha{A: scrimAlpha}), image.Point{},
		stddraw.Over)

	nameFace, err := opentype.NewFace(e.nameFont, &opentype.FaceOptions{
		Size: float64(width) / nameDivisor, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("size title font: %w", err)
	}
	defer nameFace.Close()

	messageFace, err := opentype.NewFace(e.messageFont, &opentype.FaceOptions{
		Size: float64(width) / messageDivisor, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("size body font: %w", err)
	}
	defer messageFace.Close()

	if spec.ProductName != "" {
		drawCentered(canvas, nameFace, strings.ToUpper(spec.ProductName), textPadding+nameFace.Metrics().Ascent.Ceil())
	}

	if spec.Message != "" {
		lines := wrapText(messageFace, spec.Message, width-2*textPadding)
		lineHeight := messageFace.Metrics().Height.Ceil()
		y := height - overlayHeight + 15 + messageFace.Metrics().Ascent.Ceil()
		for _, line := range lines {
			if y > height-textPadding/2 {
				break
			}
			drawCentered(canvas, messageFace, line, y)
			y += lineHeight
		}
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode creative: %w", err)
	}
	return out.Bytes(), nil
}

// scaleToFill resizes src so it covers width x height, then center-crops
// the overflow on the longer axis.
func scaleToFill(src image.Image, width, height int) *image.RGBA {
	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()

	// scale up to whichever dimension needs the larger factor
	scaledW, scaledH := width, height
	if srcW*height > srcH*width {
		scaledW = srcW * height / srcH
	} else {
		scaledH = srcH * width / srcW
	}

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, srcBounds, draw.Src, nil)

	offsetX := (scaledW - width) / 2
	offsetY := (scaledH - height) / 2

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	stddraw.Draw(canvas, canvas.Bounds(), scaled, image.Pt(offsetX, offsetY), stddraw.Src)
	return canvas
}

// drawCentered renders one line horizontally centered at baseline y.
func drawCentered(dst stddraw.Image, face font.Face, text string, y int) {
	width := dst.Bounds().Dx()
	advance := font.MeasureString(face, text).Ceil()
	x := (width - advance) / 2
	if x < textPadding {
		x = textPadding
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// wrapText greedily breaks text into lines no wider than maxWidth.
func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
