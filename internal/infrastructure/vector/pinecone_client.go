package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bartertrade/pkg/errors"
	"bartertrade/pkg/logger"
)

// PineconeClient talks to a single Pinecone index over its REST API.
type PineconeClient struct {
	apiKey    string
	indexHost string
	http      *http.Client
}

func NewPineconeClient(apiKey, indexHost string) *PineconeClient {
	return &PineconeClient{
		apiKey:    apiKey,
		indexHost: indexHost,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type upsertVector struct {
	ID       string                 `json:"id"`
	Values   []float32              `json:"values"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors []upsertVector `json:"vectors"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeValues   bool      `json:"includeValues"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

// Match is one nearest neighbor returned by the index.
type Match struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

type queryResponse struct {
	Matches []Match `json:"matches"`
}

// Upsert writes one embedding with its metadata into the index.
func (c *PineconeClient) Upsert(ctx context.Context, id string, values []float32, metadata map[string]interface{}) error {
	body := upsertRequest{
		Vectors: []upsertVector{{ID: id, Values: values, Metadata: metadata}},
	}

	if err := c.post(ctx, "/vectors/upsert", body, nil); err != nil {
		return errors.ServiceUnavailable("Vector index upsert failed", err)
	}
	return nil
}

// Query returns the topK nearest neighbors of the embedding, metadata
// included.
func (c *PineconeClient) Query(ctx context.Context, values []float32, topK int) ([]Match, error) {
	body := queryRequest{
		Vector:          values,
		TopK:            topK,
		IncludeValues:   false,
		IncludeMetadata: true,
	}

	var resp queryResponse
	if err := c.post(ctx, "/query", body, &resp); err != nil {
		return nil, errors.ServiceUnavailable("Vector index query failed", err)
	}
	return resp.Matches, nil
}

func (c *PineconeClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.indexHost+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pinecone request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read pinecone response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Pinecone %s returned status %d: %s", path, resp.StatusCode, string(respBody))
		return fmt.Errorf("pinecone returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse pinecone response: %v", err)
		}
	}

	return nil
}
