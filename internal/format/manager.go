package format

import (
	"encoding/json"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/tokenport/tokenport/internal/log"
	"github.com/tokenport/tokenport/internal/refs"
	"github.com/tokenport/tokenport/internal/tokens"
)

const (
	// enhancedDetectionThreshold: below this, the dialect adapter set is
	// activated and detection re-runs.
	enhancedDetectionThreshold = 0.7

	// minimumConfidence: below this after all adapters have had their say,
	// the input is reported as an unknown format.
	minimumConfidence = 0.3
)

// Stats summarizes one normalized document.
type Stats struct {
	Collections int `json:"collections"`
	Tokens      int `json:"tokens"`
	References  int `json:"references"`
}

// Result is the manager's aggregate output for one input document.
type Result struct {
	Format          string                  `json:"format"`
	Confidence      float64                 `json:"confidence"`
	Structure       StructureInfo           `json:"structureInfo"`
	Collections     []*tokens.Collection    `json:"-"`
	Transformations []tokens.Transformation `json:"transformations,omitempty"`
	Warnings        []string                `json:"warnings,omitempty"`
	Stats           Stats                   `json:"stats"`
	Duration        time.Duration           `json:"-"`
}

// Manager orchestrates the full single-document pipeline: parse, staged
// detection, adapter normalization, and the uniform reference-syntax pass.
//
// The cheap, always-available adapters (native, DTCG) are active from the
// start; the remaining dialect adapters activate lazily only when the
// initial signal is ambiguous, and the generic fallback activates last as
// a guaranteed non-empty result for arbitrary-but-plausible token files.
type Manager struct {
	registry       *Registry
	enhancedLoaded bool
	fallbackLoaded bool
}

// NewManager creates a manager with the initial adapter set active.
func NewManager() *Manager {
	return &Manager{
		registry: NewRegistry(NewNativeAdapter(), NewDTCGAdapter()),
	}
}

// Registry exposes the underlying registry for diagnostic surfaces.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// ActivateAll registers every adapter, for callers that want exhaustive
// per-adapter diagnostics rather than the staged cascade.
func (m *Manager) ActivateAll() {
	m.activateEnhanced()
	m.activateFallback()
}

func (m *Manager) activateEnhanced() {
	if m.enhancedLoaded {
		return
	}
	// Fixed activation order; ties in confidence favor earlier registration
	m.registry.Register(NewTokensStudioAdapter())
	m.registry.Register(NewStyleDictionaryAdapter())
	m.registry.Register(NewMaterialAdapter())
	m.registry.Register(NewCSSVarsAdapter())
	m.enhancedLoaded = true
	log.Debug("activated dialect adapter set")
}

func (m *Manager) activateFallback() {
	if m.fallbackLoaded {
		return
	}
	m.registry.Register(NewFlatAdapter())
	m.fallbackLoaded = true
	log.Debug("activated generic fallback adapter")
}

// parseDocument parses raw text as JSON (comments tolerated), falling back
// to YAML. The top-level value must be an object or array.
func parseDocument(raw []byte) (interface{}, error) {
	var data interface{}
	jsonErr := json.Unmarshal(jsonc.ToJSON(raw), &data)
	if jsonErr == nil {
		switch data.(type) {
		case map[string]interface{}, []interface{}:
			return data, nil
		}
		return nil, NewParseError("top-level value must be an object or array")
	}

	var yamlData interface{}
	if err := yaml.Unmarshal(raw, &yamlData); err == nil {
		switch yamlData.(type) {
		case map[string]interface{}, []interface{}:
			return yamlData, nil
		}
	}
	return nil, NewParseError(jsonErr.Error())
}

// Parse parses a raw document without running detection, for callers that
// drive the registry directly.
func Parse(raw []byte) (interface{}, error) {
	return parseDocument(raw)
}

// Process runs one raw document through the pipeline.
func (m *Manager) Process(raw []byte) (*Result, error) {
	start := time.Now()

	data, err := parseDocument(raw)
	if err != nil {
		return nil, err
	}

	detection := m.registry.Detect(data)
	// An all-zero round still names the first adapter, so a bare format
	// check would mistake "nothing matched" for a native detection. Only a
	// native result with usable confidence skips the dialect set.
	nativeDetected := detection.Format == FormatNative && detection.Confidence >= minimumConfidence
	if detection.Confidence < enhancedDetectionThreshold && !nativeDetected {
		m.activateEnhanced()
		detection = m.registry.Detect(data)
		if detection.Confidence < minimumConfidence {
			m.activateFallback()
			detection = m.registry.Detect(data)
		}
	}
	if detection.Confidence < minimumConfidence {
		return nil, NewUnknownFormatError(detection)
	}

	adapter := m.registry.Get(detection.Format)
	log.Info("detected format %s (confidence %.2f)", detection.Format, detection.Confidence)

	norm := adapter.Normalize(data)
	if !norm.Success {
		return nil, NewNormalizationError(detection.Format, norm.Errors)
	}

	result := &Result{
		Format:          detection.Format,
		Confidence:      detection.Confidence,
		Structure:       detection.Structure,
		Collections:     norm.Collections,
		Transformations: norm.Transformations,
		Warnings:        append(append([]string{}, detection.Warnings...), norm.Warnings...),
	}

	m.normalizeReferences(result)

	result.Stats.Collections = len(result.Collections)
	for _, col := range result.Collections {
		result.Stats.Tokens += len(col.Tokens)
	}
	result.Duration = time.Since(start)
	return result, nil
}

// normalizeReferences applies the reference-syntax normalizer uniformly
// over every token's primary value and every per-mode value, and counts
// the canonical references in the output.
func (m *Manager) normalizeReferences(result *Result) {
	for _, col := range result.Collections {
		for _, name := range col.TokenNames() {
			tok := col.Tokens[name]

			value, transformations := refs.Normalize(tok.Value)
			tok.Value = value
			result.Transformations = append(result.Transformations, transformations...)
			if refs.IsReference(tok.Value) {
				result.Stats.References++
			}

			for mode, modeValue := range tok.ValuesByMode {
				value, transformations := refs.Normalize(modeValue)
				tok.ValuesByMode[mode] = value
				result.Transformations = append(result.Transformations, transformations...)
				if refs.IsReference(value) {
					result.Stats.References++
				}
			}
		}
	}
}
