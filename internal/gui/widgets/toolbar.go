package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type Toolbar struct {
	container    *fyne.Container
	methodSelect *widget.Select
	saveButton   *widget.Button
	statusLabel  *widget.Label

	saveHandler         func()
	methodChangeHandler func(string)
}

// NewToolbar lists methods in the order given; selected is shown first.
func NewToolbar(methods []string, selected string) *Toolbar {
	t := &Toolbar{}

	t.saveButton = widget.NewButton("Save Result", t.onSaveClicked)
	t.saveButton.Importance = widget.HighImportance
	t.saveButton.Disable()

	t.methodSelect = widget.NewSelect(methods, nil)
	t.methodSelect.SetSelected(selected)
	t.methodSelect.OnChanged = t.onMethodChanged

	t.statusLabel = widget.NewLabel("Ready")

	background := canvas.NewRectangle(color.RGBA{R: 248, G: 249, B: 250, A: 255})
	content := container.NewHBox(
		t.saveButton,
		widget.NewSeparator(),
		container.NewVBox(widget.NewLabel("Method"), t.methodSelect),
		widget.NewSeparator(),
		container.NewVBox(widget.NewLabel("Status"), t.statusLabel),
	)
	t.container = container.NewStack(background, container.NewPadded(content))
	return t
}

func (t *Toolbar) onSaveClicked() {
	if t.saveHandler != nil {
		t.saveHandler()
	}
}

func (t *Toolbar) onMethodChanged(method string) {
	if t.methodChangeHandler != nil {
		t.methodChangeHandler(method)
	}
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

func (t *Toolbar) SetMethodChangeHandler(handler func(string)) {
	t.methodChangeHandler = handler
}

func (t *Toolbar) SelectedMethod() string {
	return t.methodSelect.Selected
}

func (t *Toolbar) Status() string {
	return t.statusLabel.Text
}

// SetStatus updates the status text. Saving is possible only once a result
// exists.
func (t *Toolbar) SetStatus(status string, resultReady bool) {
	t.statusLabel.SetText(status)
	if resultReady {
		t.saveButton.Enable()
	} else {
		t.saveButton.Disable()
	}
}
