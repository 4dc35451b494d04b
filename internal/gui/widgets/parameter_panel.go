package widgets

import (
	"fmt"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type sliderRange struct {
	min, max, step float64
	integer        bool
}

// Keys without an entry are not editable in the preview.
var parameterRanges = map[string]sliderRange{
	"window_size": {min: 1, max: 101, step: 2, integer: true},
	"percentage":  {min: 0, max: 100, step: 1, integer: true},
	"bias":        {min: -1, max: 1, step: 0.01},
}

// ParameterPanel renders one slider per tunable parameter of the selected
// method.
type ParameterPanel struct {
	container *fyne.Container
	content   *fyne.Container
	values    map[string]interface{}

	parameterChangeHandler func(string, interface{})
}

func NewParameterPanel() *ParameterPanel {
	pp := &ParameterPanel{values: map[string]interface{}{}}
	pp.content = container.NewVBox(widget.NewLabel("Parameters:"))
	pp.container = container.NewVBox(pp.content)
	return pp
}

func (pp *ParameterPanel) GetContainer() *fyne.Container {
	return pp.container
}

func (pp *ParameterPanel) SetParameterChangeHandler(handler func(string, interface{})) {
	pp.parameterChangeHandler = handler
}

// UpdateParameters rebuilds the panel from a method's current parameters.
func (pp *ParameterPanel) UpdateParameters(method string, params map[string]interface{}) {
	pp.content.RemoveAll()
	pp.values = make(map[string]interface{}, len(params))

	keys := make([]string, 0, len(params))
	for k, v := range params {
		pp.values[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		pp.content.Add(widget.NewLabel(method + " has no parameters"))
		pp.container.Refresh()
		return
	}

	pp.content.Add(widget.NewLabel("Parameters:"))
	for _, key := range keys {
		if r, ok := parameterRanges[key]; ok {
			pp.content.Add(pp.buildSlider(key, r, params[key]))
		}
	}
	pp.container.Refresh()
}

func (pp *ParameterPanel) buildSlider(key string, r sliderRange, current interface{}) fyne.CanvasObject {
	label := widget.NewLabel("")
	slider := widget.NewSlider(r.min, r.max)
	slider.Step = r.step

	value := toFloat(current)
	label.SetText(formatParameter(key, value, r.integer))
	slider.SetValue(value)

	slider.OnChangeEnded = func(v float64) {
		var stored interface{} = v
		if r.integer {
			stored = int(v)
		}
		label.SetText(formatParameter(key, v, r.integer))
		pp.values[key] = stored

		if pp.parameterChangeHandler != nil {
			pp.parameterChangeHandler(key, stored)
		}
	}
	slider.OnChanged = func(v float64) {
		label.SetText(formatParameter(key, v, r.integer))
	}

	return container.NewBorder(nil, nil, label, nil, slider)
}

// Values returns a copy of the parameters as currently shown.
func (pp *ParameterPanel) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(pp.values))
	for k, v := range pp.values {
		out[k] = v
	}
	return out
}

func formatParameter(key string, v float64, integer bool) string {
	if integer {
		return fmt.Sprintf("%s: %d", key, int(v))
	}
	return fmt.Sprintf("%s: %.2f", key, v)
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
