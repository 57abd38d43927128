package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	esv7 "github.com/elastic/go-elasticsearch/v7"
	esv7api "github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/mercari/go-circuitbreaker"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/taskboard/taskboard-api/internal"
)

const otelName = "github.com/taskboard/taskboard-api/internal/elasticsearch"

// Task represents the repository used for indexing and searching Task
// records.
type Task struct {
	client *esv7.Client
	index  string
	cb     *circuitbreaker.CircuitBreaker
}

type indexedTask struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
}

// NewTask instantiates the Task repository.
func NewTask(client *esv7.Client) *Task {
	return &Task{
		client: client,
		index:  "tasks",
		cb: circuitbreaker.New(
			circuitbreaker.WithOpenTimeout(time.Minute),
			circuitbreaker.WithTripFunc(circuitbreaker.NewTripFuncThreshold(3)),
		),
	}
}

// Index creates or updates a task in the index.
func (t *Task) Index(ctx context.Context, task internal.Task) error {
	defer newOTELSpan(ctx, "Task.Index").End()

	body := indexedTask{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt.UnixNano(),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.NewEncoder.Encode")
	}

	req := esv7api.IndexRequest{
		Index:      t.index,
		Body:       &buf,
		DocumentID: strconv.FormatInt(task.ID, 10),
		Refresh:    "true",
	}

	resp, err := req.Do(ctx, t.client)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "IndexRequest.Do")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return internal.NewErrorf(internal.ErrorCodeUnknown, "IndexRequest.Do %d", resp.StatusCode)
	}

	io.Copy(io.Discard, resp.Body)

	return nil
}

// Delete removes a task from the index.
func (t *Task) Delete(ctx context.Context, id int64) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	req := esv7api.DeleteRequest{
		Index:      t.index,
		DocumentID: strconv.FormatInt(id, 10),
	}

	resp, err := req.Do(ctx, t.client)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "DeleteRequest.Do")
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return internal.NewErrorf(internal.ErrorCodeUnknown, "DeleteRequest.Do %d", resp.StatusCode)
	}

	io.Copy(io.Discard, resp.Body)

	return nil
}

// Search returns the tasks whose title or description contain the received
// query, case-insensitively. An empty query matches nothing. Calls go
// through a circuit breaker so a struggling cluster fails fast.
func (t *Task) Search(ctx context.Context, query string) ([]internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Search").End()

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return []internal.Task{}, nil
	}

	res, err := t.cb.Do(ctx, func() (interface{}, error) {
		return t.search(ctx, query)
	})
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "cb.Do")
	}

	return res.([]internal.Task), nil
}

func (t *Task) search(ctx context.Context, query string) ([]internal.Task, error) {
	wildcard := fmt.Sprintf("*%s*", query)

	should := []interface{}{
		map[string]interface{}{
			"wildcard": map[string]interface{}{
				"title": map[string]interface{}{
					"value":            wildcard,
					"case_insensitive": true,
				},
			},
		},
		map[string]interface{}{
			"wildcard": map[string]interface{}{
				"description": map[string]interface{}{
					"value":            wildcard,
					"case_insensitive": true,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"created_at": "desc"},
		},
	}); err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.NewEncoder.Encode")
	}

	req := esv7api.SearchRequest{
		Index: []string{t.index},
		Body:  &buf,
	}

	resp, err := req.Do(ctx, t.client)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "SearchRequest.Do")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, internal.NewErrorf(internal.ErrorCodeUnknown, "SearchRequest.Do %d", resp.StatusCode)
	}

	var hits struct {
		Hits struct {
			Hits []struct {
				Source indexedTask `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.NewDecoder.Decode")
	}

	res := make([]internal.Task, 0, len(hits.Hits.Hits))

	for _, hit := range hits.Hits.Hits {
		res = append(res, internal.Task{
			ID:          hit.Source.ID,
			Title:       hit.Source.Title,
			Description: hit.Source.Description,
			Status:      internal.Status(hit.Source.Status),
			CreatedAt:   time.Unix(0, hit.Source.CreatedAt),
		})
	}

	return res, nil
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemElasticsearch)

	return span
}
