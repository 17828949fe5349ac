package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TaskMapping is the index mapping used for the task mirror
const TaskMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "owner_id":    {"type": "keyword"},
      "title":       {"type": "text"},
      "description": {"type": "text"},
      "status":      {"type": "keyword"},
      "priority":    {"type": "keyword"},
      "tags":        {"type": "keyword"},
      "due_date":    {"type": "date", "format": "yyyy-MM-dd"},
      "created_at":  {"type": "date"},
      "updated_at":  {"type": "date"}
    }
  }
}`

// TaskIndexer mirrors tasks into an Elasticsearch index
type TaskIndexer struct {
	client *es.Client
	index  string
}

func NewTaskIndexer(client *es.Client, index string) *TaskIndexer {
	return &TaskIndexer{client: client, index: index}
}

func taskDocument(t *entity.Task) map[string]any {
	doc := map[string]any{
		"id":          t.ID,
		"owner_id":    t.OwnerID,
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    string(t.Priority),
		"tags":        t.Tags,
		"created_at":  t.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.DueDate != nil {
		doc["due_date"] = t.DueDate.Format(time.DateOnly)
	}
	return doc
}

func (x *TaskIndexer) Index(ctx context.Context, t *entity.Task) error {
	b, err := json.Marshal(taskDocument(t))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index task %s: %s", t.ID, res.Status())
	}
	return nil
}

func (x *TaskIndexer) Remove(ctx context.Context, taskID string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: taskID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove task %s: %s", taskID, res.Status())
	}
	return nil
}

var _ application.TaskIndexer = (*TaskIndexer)(nil)
