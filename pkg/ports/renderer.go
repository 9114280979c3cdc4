package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts image codecs and drawing.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodePNG decodes PNG data into an image.Image.
	DecodePNG(data []byte) (image.Image, error)

	// EncodePNG encodes an image as PNG.
	EncodePNG(img image.Image) ([]byte, error)

	// ToNRGBA converts img to a non-premultiplied RGBA buffer anchored at (0,0).
	ToNRGBA(img image.Image) *image.NRGBA
}

// Canvas provides drawing operations for diff artifacts.
type Canvas interface {
	// DrawImage draws an image at the specified position.
	DrawImage(img image.Image, x, y int)

	// DrawRectStroke draws a rectangle outline.
	DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64)

	// ToImage returns the canvas as an image.Image.
	ToImage() image.Image
}
