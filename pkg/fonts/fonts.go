// Package fonts provides the typeface used to number step labels.
//
// The Go Regular font is compiled into the binary, so rasterized previews
// look the same on every machine.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family used for SVG labels.
const FontFamily = "Go"

// FallbackFontFamily lists fonts for viewers that do not have Go installed.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once
)

// RegularTTF returns the raw TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

// Regular returns the parsed font. The result is cached after first use.
func Regular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
		if regularErr != nil {
			regularErr = fmt.Errorf("parse go regular: %w", regularErr)
		}
	})
	return regular, regularErr
}

// Face returns a face of the regular font at the given size in points.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		Hinting: font.HintingFull,
	}), nil
}
