package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Weekly timetable builder backed by the lecture catalog",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Sessions", "description": "Session lifecycle and bearer tokens"},
        {"name": "Tables", "description": "Timetables of the current session"},
        {"name": "Gestures", "description": "Drag and drop relocation of entries"},
        {"name": "Search", "description": "Catalog search dialog"},
        {"name": "Catalog", "description": "Lecture catalog"},
        {"name": "Ops", "description": "Observability"}
    ],
    "paths": {
        "/grid": {
            "get": {
                "tags": ["Tables"],
                "summary": "Grid layout and period labels",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/catalog": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog lectures",
                "parameters": [
                    {"name": "source", "in": "query", "type": "string", "enum": ["majors", "liberal-arts"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Catalog source unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Start a timetable session",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/sessions/current": {
            "delete": {
                "tags": ["Sessions"],
                "security": [{"BearerAuth": []}],
                "summary": "End the current session",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/sessions/current/reset": {
            "post": {
                "tags": ["Sessions"],
                "security": [{"BearerAuth": []}],
                "summary": "Reset the current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/tables": {
            "get": {
                "tags": ["Tables"],
                "security": [{"BearerAuth": []}],
                "summary": "List timetables",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/tables/{id}": {
            "get": {
                "tags": ["Tables"],
                "security": [{"BearerAuth": []}],
                "summary": "Get one timetable",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Tables"],
                "security": [{"BearerAuth": []}],
                "summary": "Remove a timetable",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Last table", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tables/{id}/duplicate": {
            "post": {
                "tags": ["Tables"],
                "security": [{"BearerAuth": []}],
                "summary": "Duplicate a timetable",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/tables/{id}/entries": {
            "delete": {
                "tags": ["Tables"],
                "security": [{"BearerAuth": []}],
                "summary": "Remove the entries covering a cell",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/tables/{id}/export": {
            "get": {
                "tags": ["Tables"],
                "security": [{"BearerAuth": []}],
                "summary": "Export a timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/gestures/start": {
            "post": {
                "tags": ["Gestures"],
                "security": [{"BearerAuth": []}],
                "summary": "Begin dragging an entry",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GestureStartRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/gestures/end": {
            "post": {
                "tags": ["Gestures"],
                "security": [{"BearerAuth": []}],
                "summary": "Drop a dragged entry",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GestureEndRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/gestures/cancel": {
            "post": {
                "tags": ["Gestures"],
                "security": [{"BearerAuth": []}],
                "summary": "Abandon the drag in progress",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/search": {
            "get": {
                "tags": ["Search"],
                "security": [{"BearerAuth": []}],
                "summary": "Current search results",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Search closed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Search"],
                "security": [{"BearerAuth": []}],
                "summary": "Close the search dialog",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/search/open": {
            "post": {
                "tags": ["Search"],
                "security": [{"BearerAuth": []}],
                "summary": "Open the search dialog",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenSearchRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Catalog source unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/search/options": {
            "patch": {
                "tags": ["Search"],
                "security": [{"BearerAuth": []}],
                "summary": "Change search filters",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SearchOption"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/search/advance": {
            "post": {
                "tags": ["Search"],
                "security": [{"BearerAuth": []}],
                "summary": "Reveal the next page",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/search/commit": {
            "post": {
                "tags": ["Search"],
                "security": [{"BearerAuth": []}],
                "summary": "Add a lecture to the dialog's table",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommitLectureRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Malformed schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Ops"],
                "summary": "Metrics summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "Delta": {
            "type": "object",
            "properties": {
                "dx": {"type": "number"},
                "dy": {"type": "number"}
            }
        },
        "Rect": {
            "type": "object",
            "properties": {
                "top": {"type": "number"},
                "left": {"type": "number"},
                "bottom": {"type": "number"},
                "right": {"type": "number"}
            }
        },
        "GridGeometry": {
            "type": "object",
            "properties": {
                "cell_width": {"type": "number"},
                "cell_height": {"type": "number"},
                "day_header_width": {"type": "number"},
                "time_header_height": {"type": "number"},
                "container": {"$ref": "#/definitions/Rect"},
                "dragging": {"$ref": "#/definitions/Rect"}
            }
        },
        "GestureStartRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {"id": {"type": "string", "example": "schedule-1:0"}}
        },
        "GestureEndRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string", "example": "schedule-1:0"},
                "delta": {"$ref": "#/definitions/Delta"},
                "geometry": {"$ref": "#/definitions/GridGeometry"}
            }
        },
        "OpenSearchRequest": {
            "type": "object",
            "required": ["tableId"],
            "properties": {
                "tableId": {"type": "string"},
                "day": {"type": "string"},
                "period": {"type": "integer"}
            }
        },
        "SearchOption": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "grades": {"type": "array", "items": {"type": "integer"}},
                "days": {"type": "array", "items": {"type": "string"}},
                "periods": {"type": "array", "items": {"type": "integer"}},
                "majors": {"type": "array", "items": {"type": "string"}},
                "credits": {"type": "integer"}
            }
        },
        "CommitLectureRequest": {
            "type": "object",
            "required": ["lectureId"],
            "properties": {"lectureId": {"type": "string"}}
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "last_page": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
