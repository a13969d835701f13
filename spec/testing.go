package spec

// TestDocumentVersion is the info.version of the document returned by Test.
const TestDocumentVersion = "2024-06-01"

// Test returns a fresh copy of a small but representative document: a
// self-referencing component, shared path parameters, a deprecated operation,
// an operation without an id or tags, and a native webhook.
func Test() *Document {
	doc, err := Decode([]byte(testDocument))
	if err != nil {
		panic(err)
	}
	return doc
}

const testDocument = `{
  "openapi": "3.1.0",
  "info": {
    "title": "Widgets API",
    "version": "2024-06-01",
    "description": "Manage widgets and their orders."
  },
  "servers": [{"url": "https://api.widgets.test"}],
  "paths": {
    "/v1/widgets": {
      "get": {
        "operationId": "listWidgets",
        "summary": "List widgets",
        "tags": ["Widgets"],
        "parameters": [
          {"name": "limit", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 100}}
        ],
        "responses": {
          "200": {
            "description": "A page of widgets",
            "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/Widget"}}}}
          }
        }
      },
      "post": {
        "operationId": "createWidget",
        "tags": ["Widgets"],
        "requestBody": {"$ref": "#/components/requestBodies/WidgetInput"},
        "responses": {
          "201": {
            "description": "Created",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Widget"}}}
          }
        }
      }
    },
    "/v1/widgets/{id}": {
      "parameters": [
        {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
      ],
      "get": {
        "tags": ["Widgets"],
        "responses": {
          "200": {"$ref": "#/components/responses/WidgetResponse"}
        }
      },
      "delete": {
        "operationId": "deleteWidget",
        "deprecated": true,
        "tags": ["Widgets"],
        "responses": {"204": {"description": "Deleted"}}
      }
    },
    "/v1/orders/{order_id}/refunds": {
      "post": {
        "description": "Refund part of an order.",
        "parameters": [
          {"name": "order_id", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "legacy", "in": "query", "deprecated": true, "schema": {"type": "boolean"}}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/x-www-form-urlencoded": {"schema": {"type": "object", "properties": {"reason": {"type": "string"}}}},
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "amount": {"type": "integer", "description": "Amount in cents"},
                  "reason": {"type": "string", "enum": ["duplicate", "fraudulent"]}
                },
                "required": ["amount"]
              }
            }
          }
        },
        "responses": {"200": {"description": "OK"}}
      }
    }
  },
  "webhooks": {
    "widget.created": {
      "post": {
        "summary": "Widget created",
        "description": "Sent after a widget is created.",
        "requestBody": {
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Widget"}}}
        },
        "responses": {"200": {"description": "Acknowledged"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Widget": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "parent": {"$ref": "#/components/schemas/Widget"}
        },
        "required": ["id"]
      },
      "WidgetInput": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "size": {"type": "integer", "minimum": 1, "maximum": 10, "default": 5}
        },
        "required": ["name"]
      }
    },
    "requestBodies": {
      "WidgetInput": {
        "required": true,
        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/WidgetInput"}}}
      }
    },
    "responses": {
      "WidgetResponse": {
        "description": "A widget",
        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Widget"}}}
      }
    }
  }
}`
