// Package docs registers the Swagger specification. Regenerate with
// `swag init -g cmd/server/main.go` after changing route annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Felipe Fantin",
            "url": "https://github.com/felipefantin/check-list-EPI"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/anomalies": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Anomalies"],
                "summary": "List anomalies",
                "description": "Lists anomalies with pagination and filters, scoped to what the actor may see.",
                "parameters": [
                    {"type": "integer", "description": "Page number, defaults to 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size, defaults to 10", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Filter by status", "name": "status", "in": "query"},
                    {"type": "string", "description": "Filter by severity", "name": "severity", "in": "query"},
                    {"type": "string", "description": "Filter by category", "name": "category", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Anomalies"],
                "summary": "Create anomaly",
                "parameters": [
                    {"description": "Anomaly payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateAnomalyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/anomalies/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Anomalies"],
                "summary": "Get anomaly",
                "parameters": [
                    {"type": "integer", "description": "Anomaly ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Anomalies"],
                "summary": "Update anomaly",
                "parameters": [
                    {"type": "integer", "description": "Anomaly ID", "name": "id", "in": "path", "required": true},
                    {"description": "Anomaly payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.UpdateAnomalyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/anomalies/{id}/actions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Anomalies"],
                "summary": "Add corrective action",
                "parameters": [
                    {"type": "integer", "description": "Anomaly ID", "name": "id", "in": "path", "required": true},
                    {"description": "Action payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.AddActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/anomalies/{id}/close": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Anomalies"],
                "summary": "Close anomaly",
                "description": "Closes a resolved anomaly. Restricted to safety technicians and admins.",
                "parameters": [
                    {"type": "integer", "description": "Anomaly ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/anomalies/{id}/resolve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Anomalies"],
                "summary": "Resolve anomaly",
                "parameters": [
                    {"type": "integer", "description": "Anomaly ID", "name": "id", "in": "path", "required": true},
                    {"description": "Resolution payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ResolveAnomalyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/change-password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Change password",
                "parameters": [
                    {"description": "Password change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/forgot-password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Forgot password",
                "description": "Issues a password reset token for the account. The response is identical whether or not the email exists.",
                "parameters": [
                    {"description": "Account email", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ForgotPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Login with email",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/login-employee": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Login with employee ID",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.EmployeeLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Logout",
                "description": "Revokes the current token until its natural expiry.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/reset-password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Reset password",
                "parameters": [
                    {"description": "Reset payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ResetPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/checklists": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Checklists"],
                "summary": "List checklists",
                "parameters": [
                    {"type": "integer", "description": "Page number, defaults to 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size, defaults to 10", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Filter by type", "name": "type", "in": "query"},
                    {"type": "string", "description": "Filter by department", "name": "department", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Checklists"],
                "summary": "Create checklist",
                "parameters": [
                    {"description": "Checklist payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ChecklistRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/checklists/available": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Checklists"],
                "summary": "List available checklists",
                "description": "Lists the currently effective checklists matching the actor's department and job role.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/checklists/types": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Checklists"],
                "summary": "List checklist types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/checklists/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Checklists"],
                "summary": "Get checklist",
                "parameters": [
                    {"type": "integer", "description": "Checklist ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Checklists"],
                "summary": "Update checklist",
                "description": "Updates a checklist. Changing the items bumps the version and clears the approval.",
                "parameters": [
                    {"type": "integer", "description": "Checklist ID", "name": "id", "in": "path", "required": true},
                    {"description": "Checklist payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ChecklistRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Checklists"],
                "summary": "Deactivate checklist",
                "parameters": [
                    {"type": "integer", "description": "Checklist ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/checklists/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Checklists"],
                "summary": "Approve checklist",
                "description": "Approves the current version of a checklist. Restricted to safety technicians and admins.",
                "parameters": [
                    {"type": "integer", "description": "Checklist ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/epi-types": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["EPI Types"],
                "summary": "List EPI types",
                "parameters": [
                    {"type": "integer", "description": "Page number, defaults to 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size, defaults to 10", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Filter by category", "name": "category", "in": "query"},
                    {"type": "string", "description": "Search in name, CA number and manufacturer", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["EPI Types"],
                "summary": "Create EPI type",
                "parameters": [
                    {"description": "EPI type payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.EpiTypeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/epi-types/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["EPI Types"],
                "summary": "List EPI categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/epi-types/expired": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["EPI Types"],
                "summary": "List expired EPI types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/epi-types/expiring-soon": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["EPI Types"],
                "summary": "List EPI types expiring soon",
                "parameters": [
                    {"type": "integer", "description": "Window in days, defaults to 30", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/epi-types/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["EPI Types"],
                "summary": "Get EPI type",
                "parameters": [
                    {"type": "integer", "description": "EPI type ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["EPI Types"],
                "summary": "Update EPI type",
                "parameters": [
                    {"type": "integer", "description": "EPI type ID", "name": "id", "in": "path", "required": true},
                    {"description": "EPI type payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.EpiTypeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["EPI Types"],
                "summary": "Deactivate EPI type",
                "parameters": [
                    {"type": "integer", "description": "EPI type ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/executions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Executions"],
                "summary": "List executions",
                "description": "Lists executions with pagination and filters. Employees see their own, supervisors their team, admins and safety technicians everything.",
                "parameters": [
                    {"type": "integer", "description": "Page number, defaults to 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size, defaults to 10", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Filter by status", "name": "status", "in": "query"},
                    {"type": "integer", "description": "Filter by checklist", "name": "checklist_id", "in": "query"},
                    {"type": "integer", "description": "Filter by employee (admin and safety technician only)", "name": "employee_id", "in": "query"},
                    {"type": "string", "description": "Start date (YYYY-MM-DD)", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "End date (YYYY-MM-DD)", "name": "end_date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Executions"],
                "summary": "Start execution",
                "description": "Starts an execution against a currently effective checklist. Item results default to pending.",
                "parameters": [
                    {"description": "Execution payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateExecutionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/executions/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Executions"],
                "summary": "Get execution",
                "parameters": [
                    {"type": "integer", "description": "Execution ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Executions"],
                "summary": "Update execution",
                "description": "Replaces the results of an in-progress execution. Only the owner, admins and safety technicians may update.",
                "parameters": [
                    {"type": "integer", "description": "Execution ID", "name": "id", "in": "path", "required": true},
                    {"description": "Execution payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.UpdateExecutionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/executions/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Executions"],
                "summary": "Approve execution",
                "description": "Approves a completed execution. Supervisors may only decide on executions of their own team.",
                "parameters": [
                    {"type": "integer", "description": "Execution ID", "name": "id", "in": "path", "required": true},
                    {"description": "Decision notes", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/controllers.DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/executions/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Executions"],
                "summary": "Cancel execution",
                "parameters": [
                    {"type": "integer", "description": "Execution ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/executions/{id}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Executions"],
                "summary": "Complete execution",
                "description": "Completes an execution. All items must be evaluated and a signature hash provided; the request IP and user agent are recorded with it.",
                "parameters": [
                    {"type": "integer", "description": "Execution ID", "name": "id", "in": "path", "required": true},
                    {"description": "Signature payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CompleteExecutionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/executions/{id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Executions"],
                "summary": "Reject execution",
                "description": "Rejects a completed execution, under the same team rule as approval.",
                "parameters": [
                    {"type": "integer", "description": "Execution ID", "name": "id", "in": "path", "required": true},
                    {"description": "Decision notes", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/controllers.DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/reports/anomalies": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Anomaly report",
                "parameters": [
                    {"type": "string", "description": "Start date (YYYY-MM-DD)", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "End date (YYYY-MM-DD)", "name": "end_date", "in": "query"},
                    {"type": "string", "description": "Filter by severity", "name": "severity", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/reports/compliance": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Compliance report",
                "description": "Aggregates conform, non-conform and not-applicable item results over completed executions in the period",
                "parameters": [
                    {"type": "string", "description": "Start date (YYYY-MM-DD)", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "End date (YYYY-MM-DD)", "name": "end_date", "in": "query"},
                    {"type": "string", "description": "Filter by department", "name": "department", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/reports/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/reports/epi-status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "EPI status report",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/reports/executions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Execution report",
                "parameters": [
                    {"type": "string", "description": "Start date (YYYY-MM-DD)", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "End date (YYYY-MM-DD)", "name": "end_date", "in": "query"},
                    {"type": "string", "description": "Filter by department", "name": "department", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List users",
                "parameters": [
                    {"type": "integer", "description": "Page number, defaults to 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size, defaults to 10", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Filter by role", "name": "role", "in": "query"},
                    {"type": "string", "description": "Filter by department", "name": "department", "in": "query"},
                    {"type": "string", "description": "Search in name, email and employee ID", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Create user",
                "description": "Creates a user. Restricted to safety technicians and admins; only admins may create admins.",
                "parameters": [
                    {"description": "User payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users/departments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List departments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users/supervisors": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List supervisors",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users/team/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get supervised team",
                "parameters": [
                    {"type": "integer", "description": "Supervisor ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Update user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "User payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Deactivate user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.ChangePasswordRequest": {
            "type": "object",
            "required": ["current_password", "new_password"],
            "properties": {
                "current_password": {"type": "string"},
                "new_password": {"type": "string", "minLength": 6}
            }
        },
        "controllers.DecisionRequest": {
            "type": "object",
            "properties": {
                "notes": {"type": "string"}
            }
        },
        "controllers.EmployeeLoginRequest": {
            "type": "object",
            "required": ["employee_id", "password"],
            "properties": {
                "employee_id": {"type": "string", "example": "EMP-0042"},
                "password": {"type": "string", "example": "Secret@123"}
            }
        },
        "controllers.ForgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "controllers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "tecnico@empresa.com"},
                "password": {"type": "string", "example": "Secret@123"}
            }
        },
        "controllers.ResetPasswordRequest": {
            "type": "object",
            "required": ["token", "new_password"],
            "properties": {
                "token": {"type": "string"},
                "new_password": {"type": "string", "minLength": 6}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "services.AddActionRequest": {
            "type": "object",
            "required": ["action", "description"],
            "properties": {
                "action": {"type": "string"},
                "description": {"type": "string"},
                "cost": {"type": "number"}
            }
        },
        "services.ChecklistRequest": {
            "type": "object",
            "required": ["name", "description", "type", "items", "frequency_days"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string"},
                "department": {"type": "string"},
                "job_role": {"type": "string"},
                "items": {"type": "array", "items": {"type": "object"}},
                "frequency_days": {"type": "integer", "minimum": 1},
                "preferred_time": {"type": "string"},
                "effective_date": {"type": "string"},
                "expiry_date": {"type": "string"},
                "notes": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "services.CompleteExecutionRequest": {
            "type": "object",
            "required": ["signature_hash"],
            "properties": {
                "signature_hash": {"type": "string"}
            }
        },
        "services.CreateAnomalyRequest": {
            "type": "object",
            "required": ["checklist_execution_id", "epi_type_id", "category", "severity", "description"],
            "properties": {
                "checklist_execution_id": {"type": "integer"},
                "epi_type_id": {"type": "integer"},
                "category": {"type": "string"},
                "severity": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "coordinates": {"type": "object"},
                "photos": {"type": "array", "items": {"type": "string"}},
                "tags": {"type": "array", "items": {"type": "string"}},
                "notes": {"type": "string"}
            }
        },
        "services.CreateExecutionRequest": {
            "type": "object",
            "required": ["checklist_id", "results"],
            "properties": {
                "checklist_id": {"type": "integer"},
                "results": {"type": "array", "items": {"type": "object"}},
                "general_notes": {"type": "string"},
                "location": {"type": "string"},
                "coordinates": {"type": "object"}
            }
        },
        "services.CreateUserRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role", "department"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "role": {"type": "string"},
                "department": {"type": "string"},
                "job_role": {"type": "string"},
                "employee_id": {"type": "string"},
                "supervisor_id": {"type": "integer"},
                "hire_date": {"type": "string"},
                "photo": {"type": "string"}
            }
        },
        "services.EpiTypeRequest": {
            "type": "object",
            "required": ["name", "category", "description", "technical_standard", "manufacturer", "ca_number", "ca_expiry_date", "lifespan_months"],
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "technical_standard": {"type": "string"},
                "manufacturer": {"type": "string"},
                "model": {"type": "string"},
                "ca_number": {"type": "string"},
                "ca_expiry_date": {"type": "string"},
                "lifespan_months": {"type": "integer", "minimum": 1},
                "inspection_criteria": {"type": "array", "items": {"type": "object"}},
                "notes": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "services.ResolveAnomalyRequest": {
            "type": "object",
            "required": ["resolution_method", "notes"],
            "properties": {
                "resolution_method": {"type": "string"},
                "notes": {"type": "string"},
                "cost": {"type": "number"}
            }
        },
        "services.UpdateAnomalyRequest": {
            "type": "object",
            "required": ["category", "severity"],
            "properties": {
                "category": {"type": "string"},
                "severity": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "coordinates": {"type": "object"},
                "photos": {"type": "array", "items": {"type": "string"}},
                "tags": {"type": "array", "items": {"type": "string"}},
                "notes": {"type": "string"},
                "assigned_to_id": {"type": "integer"},
                "due_date": {"type": "string"},
                "priority": {"type": "string"}
            }
        },
        "services.UpdateExecutionRequest": {
            "type": "object",
            "required": ["results"],
            "properties": {
                "results": {"type": "array", "items": {"type": "object"}},
                "general_notes": {"type": "string"},
                "location": {"type": "string"},
                "coordinates": {"type": "object"}
            }
        },
        "services.UpdateUserRequest": {
            "type": "object",
            "required": ["name", "email", "role", "department"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "department": {"type": "string"},
                "job_role": {"type": "string"},
                "employee_id": {"type": "string"},
                "supervisor_id": {"type": "integer"},
                "is_active": {"type": "boolean"},
                "photo": {"type": "string"},
                "hire_date": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Enter the token with the ` + "`" + `Bearer: ` + "`" + ` prefix"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Check List EPI API",
	Description:      "Role-based safety equipment (EPI) compliance tracking: catalog, checklists, executions, anomalies and reports",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
