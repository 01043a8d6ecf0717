// Package docs registers the OpenAPI description served under /swagger.
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
        "/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List published posts",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.postListResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Submit a post",
                "parameters": [{"description": "Post", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.postRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Post"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/posts/{id}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Edit a post",
                "parameters": [
                    {"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true},
                    {"description": "Post", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.postRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Post"}},
                    "403": {"description": "Forbidden", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["moderation"],
                "summary": "Delete a post",
                "parameters": [{"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "string"}}
                }
            }
        },
        "/posts/{id}/read": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Read a post",
                "parameters": [{"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Post"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/posts/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["moderation"],
                "summary": "Publish a pending post",
                "parameters": [{"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Post"}},
                    "404": {"description": "Not Found", "schema": {"type": "string"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "string"}}
                }
            }
        },
        "/posts/{id}/archive": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["moderation"],
                "summary": "Archive a post",
                "parameters": [{"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Post"}},
                    "404": {"description": "Not Found", "schema": {"type": "string"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin dashboard",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.dashboardResponse"}}}
            }
        },
        "/admin/users/{username}/role": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["admin"],
                "summary": "Change a user's role",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"description": "New role", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.roleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/users/{username}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Delete a user",
                "parameters": [{"type": "string", "description": "Username", "name": "username", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "string"}}
                }
            }
        },
        "/auth/login": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Describe the login form",
                "parameters": [{"type": "string", "description": "Where to go after signing in", "name": "next", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authFormResponse"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [{"description": "Credentials; password is the SHA-256 hex digest", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "string"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"description": "Registration form; password is the SHA-256 hex digest", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "403": {"description": "Forbidden", "schema": {"type": "string"}},
                    "409": {"description": "Conflict", "schema": {"type": "string"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}}
            }
        },
        "/user/{user}/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Posts by author",
                "parameters": [{"type": "string", "description": "Author username", "name": "user", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userPostsResponse"}}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "author": {"type": "string"},
                "createdAt": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "published", "archived", "rejected"]}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "username": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "author", "user"]},
                "createdAt": {"type": "string"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.postRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {"title": {"type": "string"}, "content": {"type": "string"}}
        },
        "handler.postListResponse": {
            "type": "object",
            "properties": {"posts": {"type": "array", "items": {"$ref": "#/definitions/domain.Post"}}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "username", "password"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "author", "user"]}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "next": {"type": "string"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"},
                "redirect": {"type": "string"}
            }
        },
        "handler.authFormResponse": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "fields": {"type": "array", "items": {"type": "string"}},
                "next": {"type": "string"}
            }
        },
        "handler.roleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {"role": {"type": "string", "enum": ["admin", "author", "user"]}}
        },
        "handler.dashboardResponse": {
            "type": "object",
            "properties": {
                "posts": {"type": "array", "items": {"$ref": "#/definitions/domain.Post"}},
                "users": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}}
            }
        },
        "handler.userPostsResponse": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "posts": {"type": "array", "items": {"$ref": "#/definitions/domain.Post"}}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "error": {"type": "string"}}
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Blog API",
	Description:      "Multi-user blog with a role-gated moderation workflow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
