package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Fund Dynamics API",
        "description": "Compares two well inventory snapshots and reports wells that entered, exited or changed operating mode.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Comparisons", "description": "Snapshot comparison and report downloads"},
        {"name": "References", "description": "Organisational structure, device and commissioning tables"},
        {"name": "Usage", "description": "Usage log"},
        {"name": "Observability", "description": "Probes and counters"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness probe",
                "description": "503 until the reference tables are loaded.",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "References not loaded"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "Exposition format"}}
            }
        },
        "/api/v1/comparisons": {
            "post": {
                "tags": ["Comparisons"],
                "summary": "Compare two inventory snapshots",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "initial", "in": "formData", "type": "file", "required": true, "description": "Earlier snapshot"},
                    {"name": "terminal", "in": "formData", "type": "file", "required": true, "description": "Later snapshot"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ComparisonEnvelope"}},
                    "400": {"description": "Missing upload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Uploads too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Schema or parse error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Reference table missing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/export/{token}": {
            "get": {
                "tags": ["Comparisons"],
                "summary": "Download a rendered report",
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Report file", "schema": {"type": "file"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Report removed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/usage": {
            "get": {
                "tags": ["Usage"],
                "summary": "Latest usage log entries",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "minimum": 1, "maximum": 1000}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid limit", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/references": {
            "get": {
                "tags": ["References"],
                "summary": "Reference table status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ReferenceStatusEnvelope"}}}
            }
        },
        "/api/v1/references/reload": {
            "post": {
                "tags": ["References"],
                "summary": "Re-read reference tables",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReferenceStatusEnvelope"}},
                    "422": {"description": "Reference schema error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Reference file missing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Runtime counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "ReportRow": {
            "type": "object",
            "properties": {
                "unit": {"type": "string", "x-nullable": true},
                "subUnit": {"type": "string", "x-nullable": true},
                "group": {"type": "string", "x-nullable": true},
                "wellId": {"type": "string"},
                "idleReason": {"type": "string", "x-nullable": true},
                "mode": {"type": "string", "x-nullable": true},
                "previousMode": {"type": "string", "x-nullable": true},
                "controllerId": {"type": "string", "x-nullable": true},
                "sensorId": {"type": "string", "x-nullable": true},
                "commissionedAt": {"type": "string", "x-nullable": true},
                "inactiveSince": {"type": "string", "x-nullable": true},
                "events": {"type": "string"}
            }
        },
        "DownloadLink": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["xlsx", "csv", "pdf"]},
                "fileName": {"type": "string"},
                "url": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "Comparison": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "initialFile": {"type": "string"},
                "terminalFile": {"type": "string"},
                "headers": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/ReportRow"}},
                "summary": {
                    "type": "object",
                    "properties": {
                        "exited": {"type": "integer"},
                        "entered": {"type": "integer"},
                        "modeChanged": {"type": "integer"},
                        "wells": {"type": "integer"}
                    }
                },
                "stats": {"type": "object"},
                "downloads": {"type": "array", "items": {"$ref": "#/definitions/DownloadLink"}},
                "referencesVersion": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "cached": {"type": "boolean"}
            }
        },
        "ComparisonEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Comparison"}
            }
        },
        "ReferenceStatusEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object",
                    "properties": {
                        "loaded": {"type": "boolean"},
                        "version": {"type": "string"},
                        "loadedAt": {"type": "string", "format": "date-time"},
                        "rows": {"type": "object", "additionalProperties": {"type": "integer"}},
                        "policy": {"type": "string", "enum": ["startup", "per_request"]},
                        "lastError": {"type": "string"}
                    }
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
