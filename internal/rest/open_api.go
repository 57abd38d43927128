package rest

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ghodss/yaml"
	"github.com/go-chi/chi/v5"
)

// NewOpenAPI3 instantiates the OpenAPI specification for this service.
func NewOpenAPI3() openapi3.T {
	swagger := openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Taskboard API",
			Description: "REST API for tracking tasks grouped by status",
			Version:     "0.1.0",
			License: &openapi3.License{
				Name: "MIT",
				URL:  "https://opensource.org/licenses/MIT",
			},
		},
		Servers: openapi3.Servers{
			&openapi3.Server{
				Description: "Local development",
				URL:         "http://0.0.0.0:9234",
			},
		},
	}

	statusSchema := openapi3.NewStringSchema().
		WithEnum("To Do", "Ongoing", "Complete")

	swagger.Components = &openapi3.Components{
		Schemas: openapi3.Schemas{
			"Status": openapi3.NewSchemaRef("", statusSchema),
			"Task": openapi3.NewSchemaRef("",
				openapi3.NewObjectSchema().
					WithProperty("id", openapi3.NewInt64Schema()).
					WithProperty("title", openapi3.NewStringSchema()).
					WithProperty("description", openapi3.NewStringSchema()).
					WithPropertyRef("status", openapi3.NewSchemaRef("#/components/schemas/Status", nil)).
					WithProperty("createdAt", openapi3.NewDateTimeSchema())),
		},
		RequestBodies: openapi3.RequestBodies{
			"CreateTaskRequest": &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().
					WithDescription("Request used for creating a task.").
					WithRequired(true).
					WithJSONSchema(openapi3.NewObjectSchema().
						WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
						WithProperty("description", openapi3.NewStringSchema().WithMinLength(1)).
						WithPropertyRef("status", openapi3.NewSchemaRef("#/components/schemas/Status", nil))),
			},
			"UpdateTaskStatusRequest": &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().
					WithDescription("Request used for updating a task's status.").
					WithRequired(true).
					WithJSONSchema(openapi3.NewObjectSchema().
						WithPropertyRef("status", openapi3.NewSchemaRef("#/components/schemas/Status", nil))),
			},
			"UpdateTaskDetailsRequest": &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().
					WithDescription("Request used for editing a task's title and/or description.").
					WithRequired(true).
					WithJSONSchema(openapi3.NewObjectSchema().
						WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
						WithProperty("description", openapi3.NewStringSchema().WithMinLength(1))),
			},
		},
		Responses: openapi3.Responses{
			"ErrorResponse": &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Response when an error happens.").
					WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
						WithProperty("error", openapi3.NewStringSchema()))),
			},
			"MessageResponse": &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Response confirming the mutation.").
					WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
						WithProperty("message", openapi3.NewStringSchema()))),
			},
			"TaskResponse": &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Response returning a single task.").
					WithContent(openapi3.NewContentWithJSONSchemaRef(
						openapi3.NewSchemaRef("#/components/schemas/Task", nil))),
			},
			"TasksResponse": &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Response returning a collection of tasks.").
					WithContent(openapi3.NewContentWithJSONSchemaRef(&openapi3.SchemaRef{
						Value: &openapi3.Schema{
							Type:  "array",
							Items: openapi3.NewSchemaRef("#/components/schemas/Task", nil),
						},
					})),
			},
		},
	}

	idParam := &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter("id").
			WithSchema(openapi3.NewInt64Schema()).
			WithRequired(true),
	}

	swagger.Paths = openapi3.Paths{
		"/tasks": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "ListTasks",
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TasksResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
			Post: &openapi3.Operation{
				OperationID: "CreateTask",
				RequestBody: &openapi3.RequestBodyRef{Ref: "#/components/requestBodies/CreateTaskRequest"},
				Responses: openapi3.Responses{
					"201": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"400": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
		"/tasks/search": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "SearchTasks",
				Parameters: openapi3.Parameters{
					&openapi3.ParameterRef{
						Value: openapi3.NewQueryParameter("q").
							WithSchema(openapi3.NewStringSchema()),
					},
				},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TasksResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
		"/tasks/{id}/status": &openapi3.PathItem{
			Put: &openapi3.Operation{
				OperationID: "UpdateTaskStatus",
				Parameters:  openapi3.Parameters{idParam},
				RequestBody: &openapi3.RequestBodyRef{Ref: "#/components/requestBodies/UpdateTaskStatusRequest"},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/MessageResponse"},
					"400": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
		"/tasks/{id}/edit": &openapi3.PathItem{
			Put: &openapi3.Operation{
				OperationID: "UpdateTaskDetails",
				Parameters:  openapi3.Parameters{idParam},
				RequestBody: &openapi3.RequestBodyRef{Ref: "#/components/requestBodies/UpdateTaskDetailsRequest"},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/MessageResponse"},
					"400": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
		"/tasks/{id}": &openapi3.PathItem{
			Delete: &openapi3.Operation{
				OperationID: "DeleteTask",
				Parameters:  openapi3.Parameters{idParam},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/MessageResponse"},
					"400": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
	}

	return swagger
}

// RegisterOpenAPI serves the OpenAPI specification in JSON and YAML.
func RegisterOpenAPI(r chi.Router) {
	swagger := NewOpenAPI3()

	r.Get("/openapi3.json", func(w http.ResponseWriter, _ *http.Request) {
		renderResponse(w, &swagger, http.StatusOK)
	})

	r.Get("/openapi3.yaml", func(w http.ResponseWriter, _ *http.Request) {
		data, err := yaml.Marshal(&swagger)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/x-yaml")
		_, _ = w.Write(data)
	})
}
