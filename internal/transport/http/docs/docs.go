// Package docs registers the swagger documents served under /swagger/.
package docs

import "github.com/swaggo/swag"

// Swagger instance names.
const (
	OrdersInstance   = "orders"
	PaymentsInstance = "payments"
)

const problemSchema = `"Problem": {
            "type": "object",
            "properties": {
                "status": {"type": "integer"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "requestId": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        }`

const ordersTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "paths": {
        "/orders": {
            "get": {"tags": ["orders"], "summary": "List order summaries", "parameters": [
                {"name": "status", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                {"name": "createdAfter", "in": "query", "type": "string", "format": "date-time"},
                {"name": "limit", "in": "query", "type": "integer"},
                {"name": "offset", "in": "query", "type": "integer"}
            ], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["orders"], "summary": "Place an order", "responses": {
                "201": {"description": "Created"},
                "200": {"description": "Identical order placed recently"},
                "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Problem"}}
            }}
        },
        "/orders/{id}": {
            "get": {"tags": ["orders"], "summary": "Get an order", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Problem"}}}},
            "put": {"tags": ["orders"], "summary": "Replace items and notes of a placed order", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Problem"}}}}
        },
        "/orders/{id}/status": {
            "patch": {"tags": ["orders"], "summary": "Move an order through preparation and delivery", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Problem"}}}}
        },
        "/orders/{id}/cancel": {
            "post": {"tags": ["orders"], "summary": "Cancel an order", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Problem"}}}}
        },
        "/orders/{id}/paid": {
            "put": {"tags": ["orders"], "summary": "Mark an order as paid", "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Problem"}}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Problem"}}}}
        },
        "/orders/{id}/payment-notifications": {
            "get": {"tags": ["orders"], "summary": "List payment notifications received for an order", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        ` + problemSchema + `
    }
}`

const paymentsTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "paths": {
        "/payments": {
            "get": {"tags": ["payments"], "summary": "List payments", "parameters": [
                {"name": "page", "in": "query", "type": "integer"},
                {"name": "size", "in": "query", "type": "integer"}
            ], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["payments"], "summary": "Register a payment for an order", "responses": {
                "201": {"description": "Created"},
                "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Problem"}},
                "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Problem"}}
            }}
        },
        "/payments/{id}": {
            "get": {"tags": ["payments"], "summary": "Get a payment", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Problem"}}}},
            "put": {"tags": ["payments"], "summary": "Replace payment data", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Problem"}}}},
            "delete": {"tags": ["payments"], "summary": "Delete a payment", "responses": {"204": {"description": "No Content"}}}
        },
        "/payments/{id}/confirm": {
            "post": {"tags": ["payments"], "summary": "Confirm a payment and mark its order as paid", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Problem"}}, "502": {"description": "Order service rejected or did not answer", "schema": {"$ref": "#/definitions/Problem"}}}}
        },
        "/payments/{id}/decline": {
            "post": {"tags": ["payments"], "summary": "Decline a payment", "responses": {"200": {"description": "OK"}}}
        },
        "/payments/{id}/cancel": {
            "post": {"tags": ["payments"], "summary": "Cancel a payment", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        ` + problemSchema + `
    }
}`

// OrdersInfo describes the order service API.
var OrdersInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api",
	Title:            "order-svc",
	Description:      "Orders, their fulfillment status and received payment notifications.",
	InfoInstanceName: OrdersInstance,
	SwaggerTemplate:  ordersTemplate,
}

// PaymentsInfo describes the payment service API.
var PaymentsInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api",
	Title:            "payment-svc",
	Description:      "Card payments and their confirmation against the order service.",
	InfoInstanceName: PaymentsInstance,
	SwaggerTemplate:  paymentsTemplate,
}

func init() {
	swag.Register(OrdersInfo.InstanceName(), OrdersInfo)
	swag.Register(PaymentsInfo.InstanceName(), PaymentsInfo)
}
