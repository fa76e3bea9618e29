package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// numericTypes are semantic token types that back onto FLOAT variables.
var numericTypes = map[string]bool{
	"dimension": true, "number": true, "spacing": true, "size": true,
	"space": true, "fontSize": true, "fontWeight": true, "borderRadius": true,
	"borderWidth": true, "opacity": true, "duration": true, "lineHeight": true,
}

// VariableTypeFor maps a semantic token type to its store-side type.
func VariableTypeFor(tokenType string) VariableType {
	switch {
	case tokenType == "color":
		return TypeColor
	case tokenType == "boolean":
		return TypeBoolean
	case numericTypes[tokenType]:
		return TypeFloat
	default:
		return TypeString
	}
}

// ConvertValue converts a canonical token value into the shape the store
// expects for the given semantic type: colors become RGBA channel values,
// dimension strings become numbers, booleans and strings pass through.
func ConvertValue(tokenType string, value interface{}) (interface{}, error) {
	switch VariableTypeFor(tokenType) {
	case TypeColor:
		return convertColor(value)
	case TypeFloat:
		return convertNumber(value)
	case TypeBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		if s, ok := value.(string); ok {
			if b, err := strconv.ParseBool(s); err == nil {
				return b, nil
			}
		}
		return nil, fmt.Errorf("value %v is not a boolean", value)
	default:
		return convertString(value), nil
	}
}

func convertColor(value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("color value %v is not a string", value)
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid color value %q: %w", s, err)
	}
	// csscolorparser.Color carries R, G, B, A as float64 in [0,1]
	return RGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

func convertNumber(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(v)
		// Strip a trailing unit ("8px" -> 8)
		trimmed := strings.TrimRightFunc(s, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.' && r != '-'
		})
		if trimmed == "" {
			return nil, fmt.Errorf("value %q is not numeric", v)
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not numeric: %w", v, err)
		}
		// Percentages store as fractions
		if strings.HasSuffix(s, "%") {
			f /= 100
		}
		return f, nil
	default:
		return nil, fmt.Errorf("value %v is not numeric", value)
	}
}

func convertString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
