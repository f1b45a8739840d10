package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LearnHub API",
        "description": "Course catalog, video lessons and learner engagement.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Accounts, tokens and profiles"},
        {"name": "Catalog", "description": "Topics and courses"},
        {"name": "Ratings", "description": "Course ratings and reviews"},
        {"name": "Videos", "description": "Lesson upload, detail and streaming"},
        {"name": "Engagement", "description": "Bookmarks, comments and watch progress"},
        {"name": "Dashboard", "description": "Role-specific landing pages and exports"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Username or email taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Login",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Authentication"],
                "summary": "Update profile",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "bio", "type": "string"},
                    {"in": "formData", "name": "profile_picture", "type": "file"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses",
                "parameters": [
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "topic", "type": "string"}
                ],
                "responses": {"200": {"description": "OK; meta.warning is set when the catalog could not be loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/topics": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List topics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/topics/{slug}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Topic detail",
                "parameters": [{"in": "path", "name": "slug", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/create": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Course creation form context",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Teachers only"}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create course",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "title", "type": "string", "required": true},
                    {"in": "formData", "name": "description", "type": "string", "required": true},
                    {"in": "formData", "name": "topic_id", "type": "string", "required": true},
                    {"in": "formData", "name": "thumbnail", "type": "file"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "403": {"description": "Teachers only"}}
            }
        },
        "/create-topic": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Topic creation form context",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Teachers only"}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create topic",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateTopicRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Name or slug taken"}}
            }
        },
        "/{slug}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Course detail",
                "parameters": [{"in": "path", "name": "slug", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete course",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "slug", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}, "403": {"description": "Owner only"}}
            }
        },
        "/{slug}/ratings": {
            "get": {
                "tags": ["Ratings"],
                "summary": "List ratings",
                "parameters": [{"in": "path", "name": "slug", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Ratings"],
                "summary": "Rate course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "slug", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RateCourseRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already rated"}}
            }
        },
        "/videos/upload/{course_id}": {
            "get": {
                "tags": ["Videos"],
                "summary": "Upload form context",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "course_id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Owner only"}}
            },
            "post": {
                "tags": ["Videos"],
                "summary": "Upload video",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "path", "name": "course_id", "type": "string", "required": true},
                    {"in": "formData", "name": "title", "type": "string", "required": true},
                    {"in": "formData", "name": "description", "type": "string"},
                    {"in": "formData", "name": "order", "type": "integer"},
                    {"in": "formData", "name": "duration", "type": "integer"},
                    {"in": "formData", "name": "video_file", "type": "file", "required": true},
                    {"in": "formData", "name": "thumbnail", "type": "file"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "403": {"description": "Owner only"}}
            }
        },
        "/videos/{video_id}": {
            "get": {
                "tags": ["Videos"],
                "summary": "Video detail",
                "parameters": [{"in": "path", "name": "video_id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "post": {
                "tags": ["Engagement"],
                "summary": "Comment from the video page",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "video_id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CommentRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            },
            "delete": {
                "tags": ["Videos"],
                "summary": "Delete video",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "video_id", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}, "403": {"description": "Owner only"}}
            }
        },
        "/videos/{video_id}/stream": {
            "get": {
                "tags": ["Videos"],
                "summary": "Stream video file",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"in": "path", "name": "video_id", "type": "string", "required": true},
                    {"in": "query", "name": "token", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "Full file"}, "206": {"description": "Range"}, "403": {"description": "Invalid or expired token"}}
            }
        },
        "/videos/{video_id}/bookmark": {
            "post": {
                "tags": ["Engagement"],
                "summary": "Toggle bookmark",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "video_id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/BookmarkToggle"}}}
            }
        },
        "/videos/{video_id}/comment": {
            "post": {
                "tags": ["Engagement"],
                "summary": "Comment on a video",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "video_id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CommentRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Empty comment"}}
            }
        },
        "/videos/{video_id}/progress": {
            "post": {
                "tags": ["Engagement"],
                "summary": "Record watch progress",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "video_id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ProgressRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Role-specific dashboard",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthenticated"}}
            }
        },
        "/dashboard/export": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Export course statistics",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf", "xlsx"], "default": "csv"}],
                "responses": {"200": {"description": "File"}, "400": {"description": "Unsupported format"}, "403": {"description": "Teachers only"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["username", "email", "password", "role"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "teacher"]},
                "bio": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateTopicRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "slug": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "RateCourseRequest": {
            "type": "object",
            "required": ["rating"],
            "properties": {
                "rating": {"type": "integer", "minimum": 1, "maximum": 5},
                "review": {"type": "string"}
            }
        },
        "CommentRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"content": {"type": "string"}}
        },
        "ProgressRequest": {
            "type": "object",
            "properties": {"watched_seconds": {"type": "integer", "minimum": 0}}
        },
        "BookmarkToggle": {
            "type": "object",
            "properties": {
                "bookmarked": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "redirect": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
