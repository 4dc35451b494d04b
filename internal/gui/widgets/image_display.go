package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 500
	ImageAreaHeight = 400
)

// ImageDisplay shows the source and its binarization side by side.
type ImageDisplay struct {
	container     fyne.CanvasObject
	originalImage *canvas.Image
	binaryImage   *canvas.Image
	outcomeLabel  *widget.Label
	splitView     *container.Split
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.originalImage = newImageCanvas()
	display.binaryImage = newImageCanvas()
	display.outcomeLabel = widget.NewLabel("")
	display.outcomeLabel.Truncation = fyne.TextTruncateEllipsis

	original := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Original**"),
		nil, nil, nil,
		display.originalImage,
	)
	binary := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Binary**"),
		display.outcomeLabel, nil, nil,
		display.binaryImage,
	)

	display.splitView = container.NewHSplit(original, binary)
	display.splitView.SetOffset(0.5)
	display.container = display.splitView
	return display
}

// Binary output is two-level, so it is scaled without smoothing.
func newImageCanvas() *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return img
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}

func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.originalImage.Image = img
	id.originalImage.Refresh()
}

func (id *ImageDisplay) SetBinaryImage(img image.Image, outcome string) {
	id.binaryImage.Image = img
	id.binaryImage.Refresh()
	id.outcomeLabel.SetText(outcome)
}

func (id *ImageDisplay) OutcomeText() string {
	return id.outcomeLabel.Text
}
