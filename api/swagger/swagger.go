package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LUCT Reporting API",
        "description": "Academic reporting portal for lecture reports, student issues and principal summaries",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Reports", "description": "Lecture, student and principal report workflow"},
        {"name": "Ratings", "description": "Course, lecturer and class ratings"},
        {"name": "Monitoring", "description": "Attendance and performance monitoring"},
        {"name": "Analytics", "description": "Derived statistics and dashboards"},
        {"name": "Classes", "description": "Class management"},
        {"name": "Courses", "description": "Course reference data"},
        {"name": "Users", "description": "User directory"},
        {"name": "Exports", "description": "Asynchronous CSV and PDF exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "responses": {
                    "200": {"description": "Tokens issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/reports/lecture": {
            "post": {
                "tags": ["Reports"],
                "summary": "Submit a lecture report",
                "responses": {
                    "201": {"description": "Created in submitted state"},
                    "400": {"description": "Missing required fields"}
                }
            }
        },
        "/reports/lecture/{id}/review": {
            "post": {
                "tags": ["Reports"],
                "summary": "Review a submitted lecture report",
                "responses": {
                    "200": {"description": "Reviewed"},
                    "422": {"description": "Illegal status transition"}
                }
            }
        },
        "/reports/lecture/{id}/feedback": {
            "post": {
                "tags": ["Reports"],
                "summary": "Attach one-shot feedback",
                "responses": {
                    "200": {"description": "Feedback attached"},
                    "409": {"description": "Feedback already attached"}
                }
            }
        },
        "/reports/{family}": {
            "get": {
                "tags": ["Reports"],
                "summary": "List reports visible to the caller",
                "responses": {
                    "200": {"description": "Role-scoped listing"},
                    "403": {"description": "Family not visible to role"}
                }
            }
        },
        "/analytics/ratings/{scope}/{id}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Average rating for a course or lecturer",
                "responses": {
                    "200": {"description": "Average and count, zero when unrated"}
                }
            }
        }
    },
    "definitions": {
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
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
