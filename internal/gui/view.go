package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"

	"binarization/internal/gui/widgets"
)

// View owns the widgets and their layout. All methods must run on the fyne
// main goroutine.
type View struct {
	window     fyne.Window
	controller *Controller

	toolbar        *widgets.Toolbar
	imageDisplay   *widgets.ImageDisplay
	parameterPanel *widgets.ParameterPanel
	mainContainer  *fyne.Container
}

func NewView(window fyne.Window, methods []string, selected string) *View {
	v := &View{
		window:         window,
		toolbar:        widgets.NewToolbar(methods, selected),
		imageDisplay:   widgets.NewImageDisplay(),
		parameterPanel: widgets.NewParameterPanel(),
	}
	v.mainContainer = container.NewBorder(
		nil,
		container.NewVBox(v.toolbar.GetContainer(), v.parameterPanel.GetContainer()),
		nil, nil,
		v.imageDisplay.GetContainer(),
	)
	return v
}

func (v *View) SetController(controller *Controller) {
	v.controller = controller
	v.toolbar.SetSaveHandler(controller.SaveImage)
	v.toolbar.SetMethodChangeHandler(controller.ChangeMethod)
	v.parameterPanel.SetParameterChangeHandler(controller.UpdateParameter)
}

func (v *View) GetMainContainer() *fyne.Container {
	return v.mainContainer
}

func (v *View) SetOriginalImage(img image.Image) {
	v.imageDisplay.SetOriginalImage(img)
}

func (v *View) SetBinaryImage(img image.Image, outcome string) {
	v.imageDisplay.SetBinaryImage(img, outcome)
}

func (v *View) UpdateParameterPanel(method string, params map[string]interface{}) {
	v.parameterPanel.UpdateParameters(method, params)
}

func (v *View) SetStatus(status string, resultReady bool) {
	v.toolbar.SetStatus(status, resultReady)
}

func (v *View) ShowError(err error) {
	dialog.ShowError(err, v.window)
}

func (v *View) ShowSaveDialog(callback func(fyne.URIWriteCloser, error)) {
	dialog.ShowFileSave(callback, v.window)
}

func (v *View) Show() {
	v.window.SetContent(v.mainContainer)
	v.window.Show()
}
