// Package docs registra la definición OpenAPI servida en /swagger/*.
// Regenerar con: swag init -g cmd/api/main.go -o docs
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
        "/events": {
            "get": {
                "description": "Eventos de todos los bovinos del usuario, más reciente primero.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Listar mis eventos",
                "parameters": [
                    {"type": "integer", "description": "Desplazamiento (default 0)", "name": "skip", "in": "query"},
                    {"type": "integer", "description": "Máximo a devolver (1-200, default 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/events.eventResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/events.errorResponse"}}
                }
            },
            "post": {
                "description": "Registra un evento de un bovino. weight, diet, sale, transfer y tipos desconocidos (general) requieren ser dueño del bovino. vaccination, deworming, lab, illness y treatment requieren rol veterinario.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Registrar evento",
                "parameters": [
                    {"description": "type + data (subject_id, notes y campos del tipo)", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/events.submitEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/events.eventResponse"}},
                    "400": {"description": "validation_error", "schema": {"$ref": "#/definitions/events.errorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/events.errorResponse"}},
                    "403": {"description": "unauthorized", "schema": {"$ref": "#/definitions/events.errorResponse"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/events.errorResponse"}},
                    "500": {"description": "backend_failure", "schema": {"$ref": "#/definitions/events.errorResponse"}}
                }
            }
        },
        "/events/{eventID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Obtener evento",
                "parameters": [
                    {"type": "string", "description": "ID del evento", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/events.eventResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/events.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/events.errorResponse"}}
                }
            }
        },
        "/animals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Listar mis bovinos",
                "parameters": [
                    {"type": "string", "description": "Filtrar por predio", "name": "parcel_id", "in": "query"},
                    {"type": "integer", "name": "skip", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Registrar bovino",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Listar mis documentos",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Subir documento",
                "parameters": [
                    {"type": "string", "name": "doc_type", "in": "formData", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "events.errorResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "events.eventResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "notes": {"type": "string"},
                "subject_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "events.submitEventRequest": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "type": {
                    "type": "string",
                    "enum": ["weight", "diet", "vaccination", "deworming", "lab", "sale", "transfer", "illness", "treatment", "general"]
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Unión Ganadera API",
	Description:      "Registro de bovinos, predios, domicilios, documentos y eventos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
