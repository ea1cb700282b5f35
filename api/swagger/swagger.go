package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LMS API",
        "description": "CRUD service for universities, students, courses and admins",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Universities",
            "description": "Universities with computed student and course counts"
        },
        {
            "name": "Students",
            "description": "Students enrolled at a university"
        },
        {
            "name": "Courses",
            "description": "Courses offered by a university"
        },
        {
            "name": "Admins",
            "description": "University administrators"
        },
        {
            "name": "Ops",
            "description": "Health, readiness and metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Readiness check",
                "description": "Pings PostgreSQL, and Redis when the cache is enabled.",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is down"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/universities": {
            "get": {
                "tags": [
                    "Universities"
                ],
                "summary": "List universities",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/UniversityDTO"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Universities"
                ],
                "summary": "Create university",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UniversityDTO"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/UniversityDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid payload or enum",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Referenced university not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "Unique constraint violated",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/universities/{id}": {
            "get": {
                "tags": [
                    "Universities"
                ],
                "summary": "Get university",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/UniversityDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid id",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Universities"
                ],
                "summary": "Replace university",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UniversityDTO"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/UniversityDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid payload or enum",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "Unique constraint violated",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Universities"
                ],
                "summary": "Delete university",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "400": {
                        "description": "Invalid id",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "Courses still reference the university",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                },
                "description": "Deletes the university and its students in one transaction."
            }
        },
        "/api/universities/export": {
            "get": {
                "tags": [
                    "Universities"
                ],
                "summary": "Export universities",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "csv"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Attachment",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/students": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "List students",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/StudentDTO"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Students"
                ],
                "summary": "Create student",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/StudentDTO"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/StudentDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid payload or enum",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Referenced university not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "Unique constraint violated",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/students/{id}": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Get student",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/StudentDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid id",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Students"
                ],
                "summary": "Replace student",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/StudentDTO"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/StudentDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid payload or enum",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "Unique constraint violated",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Students"
                ],
                "summary": "Delete student",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "400": {
                        "description": "Invalid id",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/students/export": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Export students",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "csv"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Attachment",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/courses": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "List courses",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/CourseDTO"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Courses"
                ],
                "summary": "Create course",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CourseDTO"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/CourseDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid payload or enum",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Referenced university not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "Unique constraint violated",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/courses/{id}": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Get course",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/CourseDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid id",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Courses"
                ],
                "summary": "Replace course",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CourseDTO"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/CourseDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid payload or enum",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "Unique constraint violated",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Courses"
                ],
                "summary": "Delete course",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "400": {
                        "description": "Invalid id",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/courses/export": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Export courses",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "csv"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Attachment",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/admins": {
            "get": {
                "tags": [
                    "Admins"
                ],
                "summary": "List admins",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/AdminDTO"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Admins"
                ],
                "summary": "Create admin",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AdminDTO"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/AdminDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid payload or enum",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "Unique constraint violated",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/admins/{id}": {
            "get": {
                "tags": [
                    "Admins"
                ],
                "summary": "Get admin",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/AdminDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid id",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Admins"
                ],
                "summary": "Replace admin",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AdminDTO"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/AdminDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid payload or enum",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "409": {
                        "description": "Unique constraint violated",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Admins"
                ],
                "summary": "Delete admin",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer",
                        "format": "int64"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "400": {
                        "description": "Invalid id",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/admins/export": {
            "get": {
                "tags": [
                    "Admins"
                ],
                "summary": "Export admins",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "csv"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Attachment",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/ErrorEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "UniversityDTO": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "format": "int64"
                },
                "uniName": {
                    "type": "string"
                },
                "estYear": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "ACTIVE",
                        "INACTIVE"
                    ]
                },
                "adminName": {
                    "type": "string"
                },
                "students": {
                    "type": "integer",
                    "readOnly": true
                },
                "courses": {
                    "type": "integer",
                    "readOnly": true
                }
            }
        },
        "StudentDTO": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "format": "int64"
                },
                "studentId": {
                    "type": "string"
                },
                "fullName": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "major": {
                    "type": "string"
                },
                "year": {
                    "type": "string"
                },
                "phoneNumber": {
                    "type": "string"
                },
                "universityId": {
                    "type": "integer",
                    "format": "int64"
                }
            },
            "required": [
                "studentId",
                "universityId"
            ]
        },
        "CourseDTO": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "format": "int64"
                },
                "courseCode": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "credits": {
                    "type": "integer"
                },
                "universityId": {
                    "type": "integer",
                    "format": "int64"
                }
            },
            "required": [
                "universityId"
            ]
        },
        "AdminDTO": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "format": "int64"
                },
                "adminName": {
                    "type": "string"
                },
                "uniName": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "ACTIVE",
                        "INACTIVE"
                    ]
                },
                "email": {
                    "type": "string"
                },
                "students": {
                    "type": "integer"
                },
                "phnnum": {
                    "type": "integer",
                    "format": "int64"
                },
                "department": {
                    "type": "integer"
                },
                "adminStatus": {
                    "type": "string",
                    "enum": [
                        "ACTIVE",
                        "INACTIVE"
                    ]
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "error": {
                    "$ref": "#/definitions/APIError"
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
