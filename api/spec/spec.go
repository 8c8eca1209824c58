// Package spec ships the OpenAPI description of the HTTP API.
package spec

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
