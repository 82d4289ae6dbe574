// Package docs registers the OpenAPI description served at /swagger/doc.json
// by internal/httpapi's Swagger UI mount. Unlike a swag-init-generated
// docs.go, the template here is hand-maintained since the HTTP surface is
// small and fixed. It describes the health check and the metrics endpoint
// only; the WebSocket upgrade route is not described.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "yuzu",
        "description": "State-tree synchronization server: health, metrics, and the WebSocket upgrade endpoint.",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds metadata interpolated into docTemplate at serve time.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "yuzu",
	Description:      "State-tree synchronization server.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
