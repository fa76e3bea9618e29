// Package cssfile ingests plain .css stylesheets: custom property
// declarations become canonical tokens and var() values become canonical
// references. This is the path for importing a hand-written theme file
// that was never exported as JSON.
package cssfile

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"

	"github.com/tokenport/tokenport/internal/format"
	"github.com/tokenport/tokenport/internal/log"
	"github.com/tokenport/tokenport/internal/refs"
	"github.com/tokenport/tokenport/internal/tokens"
)

// CollectionName is the collection all stylesheet tokens land in.
const CollectionName = "CSS Variables"

// Parser extracts custom property declarations from CSS with tree-sitter.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a CSS parser with the CSS grammar loaded.
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(tree_sitter_css.Language())
	parser.SetLanguage(lang)

	return &Parser{parser: parser}
}

// declaration is one raw custom property before canonicalization.
type declaration struct {
	name  string
	value string
}

// Parse parses a stylesheet and returns the canonical collection built
// from its custom properties, plus the transformation log. A stylesheet
// with no custom properties yields an empty collection, not an error.
func (p *Parser) Parse(source string) (*tokens.Collection, []tokens.Transformation, error) {
	tree := p.parser.Parse([]byte(source), nil)
	if tree == nil {
		return nil, nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	var decls []declaration
	p.walkTree(tree.RootNode(), []byte(source), &decls)

	col := &tokens.Collection{
		Name:   CollectionName,
		Tokens: map[string]*tokens.Token{},
	}
	var transformations []tokens.Transformation

	for _, decl := range decls {
		path := tokens.NormalizePath(decl.name)
		if path == "" {
			continue
		}
		if path != strings.TrimPrefix(decl.name, "--") {
			transformations = append(transformations, tokens.Transformation{
				Type:        "name-normalization",
				Description: "normalized custom property name to dotted path",
				Before:      decl.name,
				After:       path,
			})
		}

		value, refTransformations := refs.Normalize(decl.value)
		transformations = append(transformations, refTransformations...)

		col.Tokens[path] = &tokens.Token{
			Type:  format.InferType(value),
			Value: value,
		}
	}

	log.Debug("parsed stylesheet: %d custom properties", len(col.Tokens))
	return col, transformations, nil
}

// walkTree collects custom property declarations depth-first.
func (p *Parser) walkTree(node *sitter.Node, source []byte, decls *[]declaration) {
	if node == nil {
		return
	}

	if node.Kind() == "declaration" {
		p.handleDeclaration(node, source, decls)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		p.walkTree(node.Child(i), source, decls)
	}
}

// handleDeclaration extracts the property name and the raw value text of a
// declaration node, keeping only custom properties.
func (p *Parser) handleDeclaration(node *sitter.Node, source []byte, decls *[]declaration) {
	var propertyNode *sitter.Node
	valueStart := -1

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			propertyNode = child
		case ":":
			// Everything after the colon up to the declaration's end is
			// the value, var() calls and multi-part values included.
			if valueStart < 0 {
				valueStart = int(child.EndByte())
			}
		}
	}

	if propertyNode == nil || valueStart < 0 {
		return
	}

	name := string(source[propertyNode.StartByte():propertyNode.EndByte()])
	if !strings.HasPrefix(name, "--") {
		return
	}

	value := string(source[valueStart:node.EndByte()])
	value = strings.TrimSuffix(strings.TrimSpace(value), ";")

	*decls = append(*decls, declaration{name: name, value: strings.TrimSpace(value)})
}
