// Package docs ships the API reference served under /docs.
package docs

import _ "embed"

// OpenAPI is the OpenAPI 3 description of the page builder API.
//
//go:embed page-builder-api.openapi.yaml
var OpenAPI []byte

// SwaggerHTML is a Swagger UI page pointing at OpenAPI.
//
//go:embed swagger.html
var SwaggerHTML []byte
