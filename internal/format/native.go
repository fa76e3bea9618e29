package format

import (
	"fmt"

	"github.com/tokenport/tokenport/internal/tokens"
)

// NativeAdapter handles the canonical collection wire format: an array of
// single-key collection objects, each carrying modes[] and variables{}.
// Input in this dialect passes through nearly unchanged, so its validation
// threshold is the strictest of any adapter: a false positive here skips
// far more normalization than any other path.
type NativeAdapter struct{}

// NewNativeAdapter creates the canonical-format adapter.
func NewNativeAdapter() *NativeAdapter {
	return &NativeAdapter{}
}

func (a *NativeAdapter) Name() string { return FormatNative }

func (a *NativeAdapter) Detect(data interface{}) DetectionResult {
	result := DetectionResult{Format: FormatNative}

	arr, ok := data.([]interface{})
	if !ok || len(arr) == 0 {
		return result
	}
	result.Structure.ArrayWrapped = true

	wellFormed := 0
	withModes := 0
	typedTokens := 0
	totalTokens := 0

	for _, entry := range arr {
		obj := asObject(entry)
		if obj == nil || len(obj) != 1 {
			continue
		}
		for _, body := range obj {
			bodyObj := asObject(body)
			if bodyObj == nil {
				continue
			}
			variables := asObject(bodyObj["variables"])
			if variables == nil {
				continue
			}
			wellFormed++
			if modes, ok := bodyObj["modes"].([]interface{}); ok && len(modes) > 0 {
				withModes++
			}
			for _, raw := range variables {
				totalTokens++
				tok := asObject(raw)
				if tok == nil {
					continue
				}
				_, hasType := tok["$type"]
				_, hasValue := tok["$value"]
				if hasType && hasValue {
					typedTokens++
				}
			}
		}
	}

	if wellFormed == 0 {
		return result
	}

	result.Structure.HasCollections = true
	result.Structure.HasModes = withModes > 0
	result.Structure.TokenCount = totalTokens
	result.Structure.PropertyStyle = PropertyStyleDollar

	confidence := 0.4 * float64(wellFormed) / float64(len(arr))
	if withModes == wellFormed {
		confidence += 0.3
	} else if withModes > 0 {
		confidence += 0.15
	}
	if totalTokens > 0 {
		confidence += 0.3 * float64(typedTokens) / float64(totalTokens)
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	result.Confidence = confidence
	return result
}

func (a *NativeAdapter) Normalize(data interface{}) NormalizationResult {
	arr, ok := data.([]interface{})
	if !ok {
		return failure("native format requires a top-level array of collection objects")
	}

	result := NormalizationResult{Success: true}
	for i, entry := range arr {
		obj := asObject(entry)
		if obj == nil || len(obj) != 1 {
			return failure(fmt.Sprintf("collection entry %d must be an object with exactly one collection name key", i))
		}
		for name, body := range obj {
			bodyObj := asObject(body)
			if bodyObj == nil {
				return failure(fmt.Sprintf("collection %q body must be an object", name))
			}
			col := &tokens.Collection{
				Name:   name,
				Tokens: map[string]*tokens.Token{},
			}
			if modes, ok := bodyObj["modes"].([]interface{}); ok {
				for _, rawMode := range modes {
					modeObj := asObject(rawMode)
					if modeObj == nil {
						continue
					}
					id, _ := modeObj["modeId"].(string)
					modeName, _ := modeObj["name"].(string)
					col.Modes = append(col.Modes, tokens.Mode{ID: id, Name: modeName})
				}
			}

			variables := asObject(bodyObj["variables"])
			if variables == nil {
				return failure(fmt.Sprintf("collection %q has no variables object", name))
			}
			for path, raw := range variables {
				tokObj := asObject(raw)
				if tokObj == nil {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("collection %q: variable %q is not an object, skipped", name, path))
					continue
				}
				tok := &tokens.Token{
					Value: cloneValue(tokObj["$value"]),
				}
				if t, ok := tokObj["$type"].(string); ok {
					tok.Type = t
				} else {
					tok.Type = InferType(tok.Value)
					result.Transformations = append(result.Transformations, tokens.Transformation{
						Type:        "type-inference",
						Description: fmt.Sprintf("inferred type %q for token %q", tok.Type, path),
						Before:      nil,
						After:       tok.Type,
					})
				}
				if desc, ok := tokObj["$description"].(string); ok {
					tok.Description = desc
				}
				if byMode := asObject(tokObj["$valuesByMode"]); byMode != nil {
					tok.ValuesByMode = map[string]interface{}{}
					for mode, v := range byMode {
						tok.ValuesByMode[mode] = cloneValue(v)
					}
				}
				col.Tokens[path] = tok
			}
			result.Collections = append(result.Collections, col)
		}
	}
	return result
}

func (a *NativeAdapter) Validate(data interface{}) bool {
	return a.Detect(data).Confidence > 0.85
}
