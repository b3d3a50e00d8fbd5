package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "JML Automation Hub API",
        "description": "REST API for Joiner/Mover/Leaver employee lifecycle workflows",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Users", "description": "User accounts"},
        {"name": "Departments", "description": "Org structure"},
        {"name": "Employees", "description": "Employee lifecycle records"},
        {"name": "Templates", "description": "Workflow templates and steps"},
        {"name": "Workflows", "description": "Running workflows and their steps"},
        {"name": "Tasks", "description": "Granular work items"},
        {"name": "Notifications", "description": "User alerts"},
        {"name": "Audit", "description": "Activity history"},
        {"name": "Dashboard", "description": "Aggregate counters and reports"},
        {"name": "Seed", "description": "Demonstration data"}
    ],
    "paths": {
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failure"}}
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Users"],
                "summary": "Update user, re-hashing password when present",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/departments": {
            "get": {"tags": ["Departments"], "summary": "List departments", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Departments"], "summary": "Create department", "responses": {"201": {"description": "Created"}}}
        },
        "/departments/{id}": {
            "get": {"tags": ["Departments"], "summary": "Get department", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Departments"], "summary": "Update department", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Departments"], "summary": "Delete department", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "departmentId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {"tags": ["Employees"], "summary": "Create employee", "responses": {"201": {"description": "Created"}}}
        },
        "/employees/search": {
            "get": {
                "tags": ["Employees"],
                "summary": "Substring search over name, email and job title",
                "parameters": [{"name": "q", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Missing term"}}
            }
        },
        "/employees/{id}": {
            "get": {"tags": ["Employees"], "summary": "Get employee", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Employees"], "summary": "Update employee", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Employees"], "summary": "Delete employee", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/templates": {
            "get": {
                "tags": ["Templates"],
                "summary": "List templates",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {"tags": ["Templates"], "summary": "Create template with embedded steps", "responses": {"201": {"description": "Created"}}}
        },
        "/templates/{id}": {
            "get": {"tags": ["Templates"], "summary": "Get template with ordered steps", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Templates"], "summary": "Update template; supplied steps replace the full set", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Templates"], "summary": "Delete template (steps are not cascaded)", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/templates/{id}/steps": {
            "get": {"tags": ["Templates"], "summary": "List template steps", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Templates"], "summary": "Add template step", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/workflows": {
            "get": {
                "tags": ["Workflows"],
                "summary": "List workflows",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "employeeId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {"tags": ["Workflows"], "summary": "Create workflow, cloning template steps", "responses": {"201": {"description": "Created"}}}
        },
        "/workflows/{id}": {
            "get": {"tags": ["Workflows"], "summary": "Get workflow with steps and employee", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Workflows"], "summary": "Update workflow", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Workflows"], "summary": "Delete workflow (steps and tasks are left behind)", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/workflows/{id}/steps": {
            "get": {"tags": ["Workflows"], "summary": "List workflow steps", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/workflow-steps/{id}": {
            "patch": {
                "tags": ["Workflows"],
                "summary": "Update workflow step; completion recalculates workflow progress",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List tasks",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "assigneeId", "in": "query", "type": "string"},
                    {"name": "workflowStepId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {"tags": ["Tasks"], "summary": "Create task", "responses": {"201": {"description": "Created"}}}
        },
        "/tasks/pending": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Pending and in-progress tasks, most urgent first",
                "parameters": [{"name": "userId", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks/{id}": {
            "get": {"tags": ["Tasks"], "summary": "Get task", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Tasks"], "summary": "Update task", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Tasks"], "summary": "Delete task", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List a user's notifications",
                "parameters": [{"name": "userId", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Missing userId"}}
            },
            "post": {"tags": ["Notifications"], "summary": "Create notification", "responses": {"201": {"description": "Created"}}}
        },
        "/notifications/{id}/read": {
            "patch": {
                "tags": ["Notifications"],
                "summary": "Mark one notification as read",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/mark-all-read": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark all of a user's notifications as read",
                "parameters": [{"name": "userId", "in": "query", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Done"}}
            }
        },
        "/audit-logs": {
            "get": {
                "tags": ["Audit"],
                "summary": "List the 100 most recent audit entries",
                "parameters": [
                    {"name": "resource", "in": "query", "type": "string"},
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "userId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard/stats": {
            "get": {"tags": ["Dashboard"], "summary": "Aggregate counters for the landing page", "responses": {"200": {"description": "OK"}}}
        },
        "/reports/workflows": {
            "get": {"tags": ["Dashboard"], "summary": "Workflow volume report", "responses": {"200": {"description": "OK"}}}
        },
        "/reports/workflows/export": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Download the workflow report",
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/seed": {
            "post": {"tags": ["Seed"], "summary": "Insert the demonstration dataset", "responses": {"201": {"description": "Created"}}}
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "array", "items": {"type": "object"}}
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
