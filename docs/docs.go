// Package docs registers the Swagger specification for the workshop API.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/clientes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Clientes"],
                "summary": "List clients",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Clientes"],
                "summary": "Create a client",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/clientes/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Clientes"],
                "summary": "Search clients",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/clientes/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Clientes"],
                "summary": "Get a client",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Clientes"],
                "summary": "Update a client",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/vehiculos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Vehiculos"],
                "summary": "List vehicles",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Vehiculos"],
                "summary": "Register a vehicle",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/vehiculos/cliente/{clienteId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Vehiculos"],
                "summary": "List a client's vehicles",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/vehiculos/marcas": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Vehiculos"],
                "summary": "List brands",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/vehiculos/modelos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Vehiculos"],
                "summary": "List models",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/vehiculos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Vehiculos"],
                "summary": "Get a vehicle",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Vehiculos"],
                "summary": "Update a vehicle",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/servicios": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Servicios"],
                "summary": "List service types",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Servicios"],
                "summary": "Create a service type",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/servicios/populares": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Servicios"],
                "summary": "Most used service types",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/servicios/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Servicios"],
                "summary": "Search service types",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/servicios/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Servicios"],
                "summary": "Get a service type",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Servicios"],
                "summary": "Update a service type",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Servicios"],
                "summary": "Delete a service type",
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}
            }
        },
        "/ingresos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ingresos"],
                "summary": "List shop visits",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ingresos"],
                "summary": "Register a shop visit",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/ingresos/estadisticas": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ingresos"],
                "summary": "Visit statistics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ingresos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ingresos"],
                "summary": "Get a shop visit",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ingresos"],
                "summary": "Update a visit description",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/diagnostico/verificar-cliente": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Diagnostico"],
                "summary": "Verify a returning customer",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/diagnostico/registrar-cliente": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Diagnostico"],
                "summary": "Register a client and vehicle",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/diagnostico/crear-factura": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Diagnostico"],
                "summary": "Issue a diagnostic bill",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/mecanicos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Mecanicos"],
                "summary": "List mechanics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/current-user": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Resolve the acting user",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/auth/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "List users",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Taller Backend API",
	Description:      "REST backend for a vehicle repair shop: clients, vehicles, service catalog, shop visits, and the diagnostic intake workflow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
