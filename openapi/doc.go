// Package openapi generates OpenAPI v3.1.0 documents from a compiled
// routing matcher and serves them as routes.
//
// The generator walks the compiled route list: every non-fallback route
// contributes one operation under its template's OpenAPI path, with
// ":"-style route parameters translated to {name} path parameters.
//
//	doc := openapi.FromMatcher(matcher, openapi.Info{
//	    Title:   "Counter API",
//	    Version: "1.0.0",
//	})
//	router.Add(openapi.Routes[*App](doc, openapi.HandleConfig{})...)
//
// The document is served as JSON at /openapi/schema.json and as YAML at
// /openapi/schema.yaml.
//
// See: https://spec.openapis.org/oas/v3.1.0
package openapi
