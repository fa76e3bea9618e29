package format

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"github.com/tokenport/tokenport/internal/refs"
)

// dimensionRegexp matches dimension-shaped strings like "8px", "-0.5rem", "100%"
var dimensionRegexp = regexp.MustCompile(`^-?\d+(\.\d+)?(px|rem|em|pt|pc|vh|vw|dp|sp|%)$`)

// fontWeightKeywords are string values treated as fontWeight tokens.
var fontWeightKeywords = map[string]bool{
	"thin": true, "light": true, "regular": true, "normal": true,
	"medium": true, "semibold": true, "bold": true, "black": true,
}

// InferType guesses a semantic token type from a raw value. Reference
// strings infer as "string" only as a last resort; callers should check
// refs.IsReference first when the referenced type matters.
func InferType(value interface{}) string {
	switch v := value.(type) {
	case bool:
		return "boolean"
	case float64, int:
		return "number"
	case string:
		s := strings.TrimSpace(v)
		if dimensionRegexp.MatchString(s) {
			return "dimension"
		}
		// Numeric before color: the color parser accepts bare numerics
		// as hue-less grays, which would misfile "42" as a color
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return "number"
		}
		if IsColorString(s) {
			return "color"
		}
		if fontWeightKeywords[strings.ToLower(s)] {
			return "fontWeight"
		}
		return "string"
	case map[string]interface{}:
		// Composite values: shadow-shaped objects carry offset/blur keys
		if _, ok := v["blur"]; ok {
			return "shadow"
		}
		if _, ok := v["fontFamily"]; ok {
			return "typography"
		}
		return "string"
	default:
		return "string"
	}
}

// IsColorString reports whether a string parses as a CSS color.
// Reference-shaped strings are never colors.
func IsColorString(s string) bool {
	if s == "" || refs.CurlyReferenceRegexp.MatchString(s) {
		return false
	}
	_, err := csscolorparser.Parse(s)
	return err == nil
}

// looksLikeTokenValue reports whether a value plausibly is a design token:
// a primitive scalar, a color- or dimension-shaped string, or an object
// carrying a value/$value key. The generic fallback adapter scores with it.
func looksLikeTokenValue(value interface{}) bool {
	switch v := value.(type) {
	case bool, float64, int:
		return true
	case string:
		return v != ""
	case map[string]interface{}:
		if _, ok := v["$value"]; ok {
			return true
		}
		_, ok := v["value"]
		return ok
	default:
		return false
	}
}

// ParseDimension extracts the numeric component of a dimension string.
// "8px" -> 8, "1.5rem" -> 1.5. Returns false for non-dimension strings.
func ParseDimension(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !dimensionRegexp.MatchString(s) {
		return 0, false
	}
	numeric := strings.TrimRightFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-'
	})
	f, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
