package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Hall Pass API",
        "description": "Schedule-driven check-in and hall-pass lifecycle engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Teacher account sessions"},
        {"name": "Schedule", "description": "Bell schedule and clock queries"},
        {"name": "CheckIns", "description": "Arrival recording and history"},
        {"name": "Students", "description": "Roster management"},
        {"name": "Streaks", "description": "On-time streak tracking"},
        {"name": "HallPass", "description": "Hall-pass trip lifecycle"},
        {"name": "Stats", "description": "Attendance aggregates"},
        {"name": "Exports", "description": "Attendance downloads"},
        {"name": "Settings", "description": "Runtime policy settings"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate the teacher account",
                "responses": {
                    "200": {"description": "Tokens issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"description": "Tokens rotated"},
                    "401": {"description": "Token expired or revoked"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "Profile"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/schedule/day-types": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List known day types",
                "responses": {
                    "200": {"description": "Day types and today's resolution"}
                }
            }
        },
        "/schedule/clock": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Clock view for a period",
                "parameters": [
                    {"name": "dayType", "in": "query", "type": "string"},
                    {"name": "period", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Window, countdown, and blackout state"},
                    "404": {"description": "Unknown day type"}
                }
            }
        },
        "/checkins": {
            "get": {
                "tags": ["CheckIns"],
                "summary": "List check-ins for a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "period", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Records"}
                }
            },
            "post": {
                "tags": ["CheckIns"],
                "summary": "Record a check-in",
                "responses": {
                    "201": {"description": "Recorded"},
                    "200": {"description": "Duplicate, original record returned"},
                    "422": {"description": "No class scheduled"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "responses": {
                    "200": {"description": "Roster page"}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Add a student",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/students/import": {
            "post": {
                "tags": ["Students"],
                "summary": "Import roster from CSV",
                "responses": {
                    "200": {"description": "Import summary"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student",
                "responses": {
                    "200": {"description": "Student"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Archive a student",
                "responses": {
                    "204": {"description": "Archived"}
                }
            }
        },
        "/students/{id}/streak": {
            "get": {
                "tags": ["Streaks"],
                "summary": "Student streak",
                "responses": {
                    "200": {"description": "Streak state"}
                }
            }
        },
        "/students/{id}/history": {
            "get": {
                "tags": ["CheckIns"],
                "summary": "Student attendance history",
                "responses": {
                    "200": {"description": "Trailing-window records"}
                }
            }
        },
        "/hallpass/trips": {
            "get": {
                "tags": ["HallPass"],
                "summary": "Trip log for a date",
                "responses": {
                    "200": {"description": "Trips"}
                }
            },
            "post": {
                "tags": ["HallPass"],
                "summary": "Request a hall pass",
                "responses": {
                    "201": {"description": "Trip out or queued"},
                    "409": {"description": "Locked, blackout, or cooldown"}
                }
            }
        },
        "/hallpass/trips/{id}/complete": {
            "post": {
                "tags": ["HallPass"],
                "summary": "Complete a trip",
                "responses": {
                    "200": {"description": "Trip returned"},
                    "404": {"description": "Unknown trip"}
                }
            }
        },
        "/hallpass/trips/{id}/cancel": {
            "post": {
                "tags": ["HallPass"],
                "summary": "Cancel a trip",
                "responses": {
                    "200": {"description": "Trip cancelled"},
                    "404": {"description": "Unknown trip"}
                }
            }
        },
        "/hallpass/promote": {
            "post": {
                "tags": ["HallPass"],
                "summary": "Promote the next queued trip",
                "responses": {
                    "200": {"description": "Promoted trip"},
                    "204": {"description": "Queue empty"},
                    "409": {"description": "A trip is still active"}
                }
            }
        },
        "/hallpass/active": {
            "get": {
                "tags": ["HallPass"],
                "summary": "Currently active trip",
                "responses": {
                    "200": {"description": "Active trip"},
                    "204": {"description": "Nobody out"}
                }
            }
        },
        "/hallpass/queue": {
            "get": {
                "tags": ["HallPass"],
                "summary": "Queued trips in FIFO order",
                "responses": {
                    "200": {"description": "Queue"}
                }
            }
        },
        "/hallpass/cooldown/{studentId}": {
            "get": {
                "tags": ["HallPass"],
                "summary": "Student cooldown status",
                "responses": {
                    "200": {"description": "Cooldown state"}
                }
            }
        },
        "/stats/attendance": {
            "get": {
                "tags": ["Stats"],
                "summary": "Attendance stats over a trailing window",
                "responses": {
                    "200": {"description": "Aggregates"}
                }
            }
        },
        "/exports/attendance.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export attendance as CSV",
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/exports/attendance.pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export attendance as PDF",
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "List settings",
                "responses": {
                    "200": {"description": "Settings"}
                }
            }
        },
        "/settings/{key}": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get a setting",
                "responses": {
                    "200": {"description": "Setting"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Write a setting",
                "responses": {
                    "200": {"description": "Saved"},
                    "400": {"description": "Unknown key or bad value"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "Envelope": {
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
