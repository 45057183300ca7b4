// Package apidoc builds the OpenAPI description of the recipe API.
package apidoc

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	// YAMLContentType is the media type used when serving the YAML document.
	YAMLContentType = "application/vnd.oai.openapi"
	// JSONContentType is the media type used when serving the JSON document.
	JSONContentType = "application/vnd.oai.openapi+json"
)

type Document struct {
	OpenAPI    string               `yaml:"openapi" json:"openapi"`
	Info       Info                 `yaml:"info" json:"info"`
	Paths      map[string]*PathItem `yaml:"paths" json:"paths"`
	Components Components           `yaml:"components" json:"components"`
}

type Info struct {
	Title       string `yaml:"title" json:"title"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type PathItem struct {
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Get        *Operation  `yaml:"get,omitempty" json:"get,omitempty"`
	Post       *Operation  `yaml:"post,omitempty" json:"post,omitempty"`
	Put        *Operation  `yaml:"put,omitempty" json:"put,omitempty"`
	Patch      *Operation  `yaml:"patch,omitempty" json:"patch,omitempty"`
	Delete     *Operation  `yaml:"delete,omitempty" json:"delete,omitempty"`
}

type Operation struct {
	OperationID string               `yaml:"operationId" json:"operationId"`
	Tags        []string             `yaml:"tags,omitempty" json:"tags,omitempty"`
	Parameters  []Parameter          `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody         `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   map[string]*Response `yaml:"responses" json:"responses"`
}

type Parameter struct {
	Name        string  `yaml:"name" json:"name"`
	In          string  `yaml:"in" json:"in"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Schema      *Schema `yaml:"schema" json:"schema"`
}

type RequestBody struct {
	Required bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	Content  map[string]*MediaType `yaml:"content" json:"content"`
}

type Response struct {
	Description string                `yaml:"description" json:"description"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `yaml:"schema" json:"schema"`
}

type Components struct {
	Schemas map[string]*Schema `yaml:"schemas" json:"schemas"`
}

type Schema struct {
	Ref        string             `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Type       string             `yaml:"type,omitempty" json:"type,omitempty"`
	ReadOnly   bool               `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	MaxLength  int                `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength  int                `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Required   []string           `yaml:"required,omitempty" json:"required,omitempty"`
	Properties map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Items      *Schema            `yaml:"items,omitempty" json:"items,omitempty"`
}

// YAML renders the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode openapi yaml: %w", err)
	}
	return out, nil
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode openapi json: %w", err)
	}
	return out, nil
}

// Encode renders the document in the named format, "yaml" or "json".
func (d *Document) Encode(format string) ([]byte, string, error) {
	switch format {
	case "", "yaml", "openapi":
		out, err := d.YAML()
		return out, YAMLContentType, err
	case "json", "openapi-json":
		out, err := d.JSON()
		return out, JSONContentType, err
	default:
		return nil, "", fmt.Errorf("unsupported schema format %q", format)
	}
}
