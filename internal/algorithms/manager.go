package algorithms

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"binarization/internal/models"
	"binarization/internal/processing/local"
	"binarization/internal/processing/polysegment"
	"binarization/internal/processing/threshold"
)

// ErrUnknownMethod reports a method name with no registered definition.
var ErrUnknownMethod = fmt.Errorf("unknown method: %w", models.ErrInvalidParameter)

type builder func(params map[string]interface{}) (Method, error)

type definition struct {
	kind     Kind
	defaults map[string]interface{}
	build    builder
}

// Manager resolves method names and loosely typed parameter maps, as found in
// configuration files and command lines, into validated methods.
type Manager struct {
	definitions map[string]definition
	mu          sync.RWMutex
}

func NewManager() *Manager {
	manager := &Manager{
		definitions: make(map[string]definition),
	}
	manager.registerAlgorithms()
	return manager
}

func (m *Manager) registerAlgorithms() {
	for _, s := range []threshold.Selector{
		threshold.Otsu{},
		threshold.Entropy{},
		threshold.Yen{},
		threshold.Balanced{},
		threshold.Intermodes{},
		threshold.MinimumIntermodes{},
		threshold.MinimumError{},
		threshold.Moments{},
		threshold.UnimodalRosin{},
	} {
		m.registerFixed(s)
	}
	m.registerFixed(polysegment.Polysegment{})

	m.Register(local.AdaptiveThreshold{}.Name(), KindLocal, map[string]interface{}{
		"percentage":  local.DefaultAdaptivePercentage,
		"window_size": local.DefaultAdaptiveWindow,
	}, func(params map[string]interface{}) (Method, error) {
		percentage, err := intParam(params, "percentage", local.DefaultAdaptivePercentage)
		if err != nil {
			return nil, err
		}
		window, err := intParam(params, "window_size", local.DefaultAdaptiveWindow)
		if err != nil {
			return nil, err
		}
		return local.NewAdaptiveThreshold(percentage, window)
	})

	m.Register(local.Niblack{}.Name(), KindLocal, windowBiasDefaults(), func(params map[string]interface{}) (Method, error) {
		window, bias, err := windowBias(params)
		if err != nil {
			return nil, err
		}
		return local.NewNiblack(window, bias)
	})

	m.Register(local.Sauvola{}.Name(), KindLocal, windowBiasDefaults(), func(params map[string]interface{}) (Method, error) {
		window, bias, err := windowBias(params)
		if err != nil {
			return nil, err
		}
		return local.NewSauvola(window, bias)
	})
}

// registerFixed registers a method without parameters under the kind of the
// capability it implements.
func (m *Manager) registerFixed(method Method) {
	kind, ok := KindOf(method)
	if !ok {
		panic(fmt.Sprintf("algorithms: %s implements no binarization capability", method.Name()))
	}
	m.Register(method.Name(), kind, map[string]interface{}{}, func(map[string]interface{}) (Method, error) {
		return method, nil
	})
}

func windowBiasDefaults() map[string]interface{} {
	return map[string]interface{}{
		"window_size": local.DefaultWindow,
		"bias":        local.DefaultBias,
	}
}

func windowBias(params map[string]interface{}) (int, float64, error) {
	window, err := intParam(params, "window_size", local.DefaultWindow)
	if err != nil {
		return 0, 0, err
	}
	bias, err := floatParam(params, "bias", local.DefaultBias)
	if err != nil {
		return 0, 0, err
	}
	return window, bias, nil
}

// Register adds or replaces a method definition.
func (m *Manager) Register(name string, kind Kind, defaults map[string]interface{}, build builder) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.definitions[normalizeName(name)] = definition{kind: kind, defaults: defaults, build: build}
}

// Build constructs the named method, filling absent parameters from the
// defaults.
func (m *Manager) Build(name string, params map[string]interface{}) (Method, error) {
	def, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	if err := checkKeys(name, params, def.defaults); err != nil {
		return nil, err
	}

	method, err := def.build(params)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters for %s: %w", name, err)
	}
	return method, nil
}

// ValidateParameters checks params against the named method without keeping
// the result.
func (m *Manager) ValidateParameters(name string, params map[string]interface{}) error {
	_, err := m.Build(name, params)
	return err
}

func (m *Manager) GetDefaultParameters(name string) (map[string]interface{}, error) {
	def, err := m.lookup(name)
	if err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(def.defaults))
	for k, v := range def.defaults {
		result[k] = v
	}
	return result, nil
}

func (m *Manager) GetKind(name string) (Kind, error) {
	def, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	return def.kind, nil
}

// GetAvailableAlgorithms lists registered method names in sorted order.
func (m *Manager) GetAvailableAlgorithms() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.definitions))
	for name := range m.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) lookup(name string) (definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if def, exists := m.definitions[normalizeName(name)]; exists {
		return def, nil
	}
	return definition{}, fmt.Errorf("%q: %w", name, ErrUnknownMethod)
}

// normalizeName accepts "MinimumIntermodes", "minimum-intermodes" and
// "minimum_intermodes" alike.
func normalizeName(name string) string {
	var b strings.Builder
	var prev rune
	for _, r := range strings.TrimSpace(name) {
		orig := r
		switch {
		case r == '-' || r == ' ':
			r = '_'
		case r >= 'A' && r <= 'Z':
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
		prev = orig
	}
	return b.String()
}

// IsUnknownMethod reports whether err came from an unregistered method name.
func IsUnknownMethod(err error) bool {
	return errors.Is(err, ErrUnknownMethod)
}
