// Package docs registers the OpenAPI document served under /swagger.
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
        "/healthz": {
            "get": {"tags": ["health"], "summary": "Liveness and dependency check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Dependency down"}}}
        },
        "/register": {
            "post": {"tags": ["auth"], "summary": "Register new user and return JWT token",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/handlers.CredentialsRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid input"}, "409": {"description": "User exists"}}}
        },
        "/login": {
            "post": {"tags": ["auth"], "summary": "Authenticate user and return JWT token",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/handlers.CredentialsRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}, "401": {"description": "Unauthorized"}}}
        },
        "/products": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "List products", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}
        },
        "/products/upload": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["import"], "summary": "Import products and stock from a spreadsheet",
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid file"}, "413": {"description": "File too large"}}}
        },
        "/products/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "Get product by ID", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/products/{id}/transactions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Get product ledger entries", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "since", "in": "query"},
                    {"type": "string", "name": "until", "in": "query"},
                    {"type": "integer", "name": "warehouse_id", "in": "query"},
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}, "404": {"description": "Product not found"}}}
        },
        "/products/{id}/transactions/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Export product ledger entries", "produces": ["text/csv", "application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "format", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}
        },
        "/stock/product/{productId}/warehouses": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["stock"], "summary": "Warehouses holding a product", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "productId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Product not found"}}}
        },
        "/stock/out": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["stock"], "summary": "Withdraw stock from one or more warehouses",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.StockOutRequest"}},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error or missing stock row"},
                    "404": {"description": "Product not found"}, "409": {"description": "Insufficient stock or key in use"}}}
        },
        "/reports/low-stock": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Products with stock rows below the low stock threshold",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Dashboard summary",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/reconciliation": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Stock rows that disagree with the ledger",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "handlers.CredentialsRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.StockOutLineRequest": {
            "type": "object",
            "properties": {"warehouseId": {"type": "integer"}, "quantity": {"type": "number"}}
        },
        "handlers.StockOutRequest": {
            "type": "object",
            "properties": {
                "productId": {"type": "integer"},
                "transactionDate": {"type": "string"},
                "reference_no": {"type": "string"},
                "remarks": {"type": "string"},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/handlers.StockOutLineRequest"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inventory Ledger API",
	Description:      "Stock ledger backend: spreadsheet import, multi-warehouse stock-out and ledger history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
