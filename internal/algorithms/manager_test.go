package algorithms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binarization/internal/models"
	"binarization/internal/processing/local"
	"binarization/internal/processing/polysegment"
	"binarization/internal/processing/threshold"
)

func TestManagerListsAllMethods(t *testing.T) {
	names := NewManager().GetAvailableAlgorithms()
	assert.Equal(t, []string{
		"adaptive_threshold",
		"balanced",
		"entropy",
		"intermodes",
		"minimum_error",
		"minimum_intermodes",
		"moments",
		"niblack",
		"otsu",
		"polysegment",
		"sauvola",
		"unimodal_rosin",
		"yen",
	}, names)
}

func TestManagerBuildsDefaults(t *testing.T) {
	m := NewManager()

	method, err := m.Build("AdaptiveThreshold", nil)
	require.NoError(t, err)
	assert.Equal(t, local.AdaptiveThreshold{Percentage: 15, WindowSize: 32}, method)

	method, err = m.Build("niblack", nil)
	require.NoError(t, err)
	assert.Equal(t, local.Niblack{WindowSize: 7, Bias: 0.2}, method)

	method, err = m.Build("Sauvola", map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, local.Sauvola{WindowSize: 7, Bias: 0.2}, method)

	method, err = m.Build("minimum-intermodes", nil)
	require.NoError(t, err)
	assert.Equal(t, threshold.MinimumIntermodes{}, method)

	method, err = m.Build("UnimodalRosin", nil)
	require.NoError(t, err)
	assert.Equal(t, threshold.UnimodalRosin{}, method)

	method, err = m.Build("polysegment", nil)
	require.NoError(t, err)
	assert.Equal(t, polysegment.Polysegment{}, method)
}

func TestManagerParameterTypes(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name   string
		params map[string]interface{}
		want   Method
	}{
		{"int", map[string]interface{}{"window_size": 11, "bias": 0.1}, local.Niblack{WindowSize: 11, Bias: 0.1}},
		{"toml int64", map[string]interface{}{"window_size": int64(9), "bias": int64(0)}, local.Niblack{WindowSize: 9, Bias: 0}},
		{"whole float", map[string]interface{}{"window_size": 5.0}, local.Niblack{WindowSize: 5, Bias: 0.2}},
		{"strings", map[string]interface{}{"window_size": "13", "bias": "-0.3"}, local.Niblack{WindowSize: 13, Bias: -0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Build("niblack", tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManagerRejectsBadInput(t *testing.T) {
	m := NewManager()

	_, err := m.Build("triangle", nil)
	assert.ErrorIs(t, err, ErrUnknownMethod)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
	assert.True(t, IsUnknownMethod(err))

	_, err = m.Build("otsu", map[string]interface{}{"window_size": 3})
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	err = m.ValidateParameters("adaptive_threshold", map[string]interface{}{"percentage": 150})
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	err = m.ValidateParameters("sauvola", map[string]interface{}{"window_size": 2.5})
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	for _, window := range []interface{}{math.Inf(1), math.Inf(-1), math.NaN(), 1e300, -1e300, int64(1) << 40, "99999999999"} {
		_, err = m.Build("niblack", map[string]interface{}{"window_size": window})
		assert.ErrorIs(t, err, models.ErrInvalidParameter, "%v", window)
	}
	for _, bias := range []interface{}{math.Inf(1), math.NaN(), "NaN"} {
		_, err = m.Build("sauvola", map[string]interface{}{"bias": bias})
		assert.ErrorIs(t, err, models.ErrInvalidParameter, "%v", bias)
	}

	err = m.ValidateParameters("niblack", map[string]interface{}{"bias": true})
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestManagerDefaultParametersAreCopies(t *testing.T) {
	m := NewManager()
	params, err := m.GetDefaultParameters("sauvola")
	require.NoError(t, err)
	params["window_size"] = 99

	again, err := m.GetDefaultParameters("sauvola")
	require.NoError(t, err)
	assert.Equal(t, local.DefaultWindow, again["window_size"])

	kind, err := m.GetKind("polysegment")
	require.NoError(t, err)
	assert.Equal(t, KindClassifier, kind)
}

func TestRegisteredKindsMatchCapabilities(t *testing.T) {
	m := NewManager()
	for _, name := range m.GetAvailableAlgorithms() {
		method, err := m.Build(name, nil)
		require.NoError(t, err, name)

		want, ok := KindOf(method)
		require.True(t, ok, name)
		got, err := m.GetKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(threshold.Yen{})
	assert.True(t, ok)
	assert.Equal(t, KindGlobal, kind)

	kind, ok = KindOf(local.Niblack{})
	assert.True(t, ok)
	assert.Equal(t, "local", kind.String())

	_, ok = KindOf(unsupported{})
	assert.False(t, ok)
}
