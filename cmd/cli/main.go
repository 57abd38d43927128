// Command cli exercises the Taskboard API end to end: it creates a task,
// moves it through the board, edits it and finally deletes it, with every
// request traced.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func main() {
	var baseURL string

	flag.StringVar(&baseURL, "url", "http://0.0.0.0:9234", "Taskboard API base URL")
	flag.Parse()

	initTracer()

	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   5 * time.Second,
	}

	// Create
	var created task
	doJSON(client, http.MethodPost, baseURL+"/tasks",
		map[string]string{"title": "Sleep early", "description": "Before midnight"},
		&created)

	fmt.Printf("New Task\n\tID: %d\n\tTitle: %s\n\tStatus: %s\n\tCreatedAt: %s\n",
		created.ID, created.Title, created.Status, created.CreatedAt)

	// Move it across the board.
	var msg messageResponse
	doJSON(client, http.MethodPut, fmt.Sprintf("%s/tasks/%d/status", baseURL, created.ID),
		map[string]string{"status": "Ongoing"}, &msg)
	fmt.Printf("Status update: %s\n", msg.Message)

	// Edit the details.
	doJSON(client, http.MethodPut, fmt.Sprintf("%s/tasks/%d/edit", baseURL, created.ID),
		map[string]string{"description": "Before 23:00"}, &msg)
	fmt.Printf("Edit: %s\n", msg.Message)

	// List
	var tasks []task
	doJSON(client, http.MethodGet, baseURL+"/tasks", nil, &tasks)
	fmt.Printf("Listed %d task(s)\n", len(tasks))

	// Delete
	doJSON(client, http.MethodDelete, fmt.Sprintf("%s/tasks/%d", baseURL, created.ID), nil, &msg)
	fmt.Printf("Delete: %s\n", msg.Message)
}

func doJSON(client *http.Client, method, url string, body, target interface{}) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("Couldn't encode body: %s", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		log.Fatalf("Couldn't create request: %s", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Couldn't call %s %s: %s", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		log.Fatalf("%s %s: unexpected status %d", method, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		log.Fatalf("Couldn't decode response: %s", err)
	}
}

func initTracer() {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatalf("Couldn't initialize exporter: %s", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
}
