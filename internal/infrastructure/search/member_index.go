package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
)

const (
	requestTimeout    = 3 * time.Second
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// MemberIndex mirrors members into an Elasticsearch index for free-text search.
type MemberIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewMemberIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *MemberIndex {
	return &MemberIndex{ES: es, Index: index, Logger: logger}
}

// Put indexes m under its id, replacing any previous version.
func (i *MemberIndex) Put(ctx context.Context, m entity.Member) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.Index, DocumentID: m.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index member %s: %s", m.ID, res.Status())
	}
	return nil
}

// Remove deletes the member document. A missing document is not an error.
func (i *MemberIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: i.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete member %s: %s", id, res.Status())
	}
	return nil
}

// Clear deletes the whole index. It is recreated by the next Put.
func (i *MemberIndex) Clear(ctx context.Context) error {
	req := esapi.IndicesDeleteRequest{Index: []string{i.Index}}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete index %s: %s", i.Index, res.Status())
	}
	return nil
}

// Search performs a multi_match on name and email, email weighted higher.
func (i *MemberIndex) Search(ctx context.Context, q string, size int) ([]entity.Member, error) {
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"email^2", "name"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.ES.Search(
		i.ES.Search.WithContext(c),
		i.ES.Search.WithIndex(i.Index),
		i.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			// index not created yet: nothing registered
			return []entity.Member{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string        `json:"_id"`
				Source entity.Member `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Member, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		m := h.Source
		if m.ID == "" {
			m.ID = h.ID
		}
		out = append(out, m)
	}
	return out, nil
}
