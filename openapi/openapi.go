package openapi

import (
	"fmt"
	"strings"

	"github.com/consoletvs/valar/routing"
)

// Version is the OpenAPI specification version emitted by FromMatcher.
const Version = "3.1.0"

// FromMatcher builds an OpenAPI document from a compiled matcher. Route
// templates are translated to OpenAPI path templating (`:id` becomes
// `{id}`) and every template parameter is declared as a required string
// path parameter. The fallback route is not part of the public surface
// and is skipped.
func FromMatcher[App any](m *routing.Matcher[App], info Info) *Document {
	doc := &Document{
		OpenAPI: Version,
		Info:    info,
		Paths:   make(map[string]*PathItem),
	}

	for _, route := range m.Routes() {
		if route.IsFallback() {
			continue
		}

		path, params := templatePath(route.Template())

		item, ok := doc.Paths[path]
		if !ok {
			item = &PathItem{}
			doc.Paths[path] = item
		}

		op := &Operation{
			OperationID: operationID(route.Method(), path),
			Parameters:  params,
		}

		setOperation(item, route.Method(), op)
	}

	return doc
}

// templatePath converts a route template to an OpenAPI path and the
// path parameters it declares.
func templatePath(template string) (string, []*Parameter) {
	var params []*Parameter

	segments := strings.Split(strings.Trim(template, "/"), "/")
	for i, segment := range segments {
		name, ok := strings.CutPrefix(segment, ":")
		if !ok {
			continue
		}

		segments[i] = "{" + name + "}"
		params = append(params, &Parameter{
			Name:     name,
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: "string"},
		})
	}

	return "/" + strings.Join(segments, "/"), params
}

func operationID(method, path string) string {
	path = strings.NewReplacer("/", "_", "{", "", "}", "").Replace(strings.Trim(path, "/"))
	if path == "" {
		path = "root"
	}

	return fmt.Sprintf("%s_%s", strings.ToLower(method), path)
}

func setOperation(item *PathItem, method string, op *Operation) {
	switch method {
	case "GET":
		item.Get = op
	case "PUT":
		item.Put = op
	case "POST":
		item.Post = op
	case "DELETE":
		item.Delete = op
	case "OPTIONS":
		item.Options = op
	case "HEAD":
		item.Head = op
	case "PATCH":
		item.Patch = op
	case "TRACE":
		item.Trace = op
	}
}
