package openapi

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/consoletvs/valar/httpx"
	"github.com/consoletvs/valar/routing"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HandleConfig configures the routes serving the document.
type HandleConfig struct {
	// JSONTemplate is the route template of the JSON document. Defaults
	// to "openapi/schema.json".
	JSONTemplate string

	// YAMLTemplate is the route template of the YAML document. Defaults
	// to "openapi/schema.yaml".
	YAMLTemplate string
}

// Routes returns route nodes serving the document as JSON and YAML:
//
//	router.Add(openapi.Routes[*App](doc, openapi.HandleConfig{})...)
func Routes[App any](doc *Document, config HandleConfig) []routing.Node[App] {
	if config.JSONTemplate == "" {
		config.JSONTemplate = "openapi/schema.json"
	}

	if config.YAMLTemplate == "" {
		config.YAMLTemplate = "openapi/schema.yaml"
	}

	return []routing.Node[App]{
		routing.Get(config.JSONTemplate, serveJSON[App](doc)),
		routing.Get(config.YAMLTemplate, serveYAML[App](doc)),
	}
}

func serveJSON[App any](doc *Document) routing.Handler[App] {
	return func(ctx context.Context, req *httpx.Request[App]) (*httpx.Response, error) {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}

		return httpx.OK().
			WithHeader("Content-Type", "application/json").
			WithBody(data), nil
	}
}

func serveYAML[App any](doc *Document) routing.Handler[App] {
	return func(ctx context.Context, req *httpx.Request[App]) (*httpx.Response, error) {
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, err
		}

		return httpx.OK().
			WithHeader("Content-Type", "application/yaml").
			WithBody(data), nil
	}
}
