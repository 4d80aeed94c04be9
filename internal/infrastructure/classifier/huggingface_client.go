package classifier

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

// Label is one classifier prediction.
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// HuggingFaceClient calls the HuggingFace Inference API for image
// classification and sentence embeddings.
type HuggingFaceClient struct {
	apiKey        string
	classifierURL string
	embeddingURL  string
	http          *http.Client
}

func NewHuggingFaceClient(apiKey, classifierURL, embeddingURL string) *HuggingFaceClient {
	return &HuggingFaceClient{
		apiKey:        apiKey,
		classifierURL: classifierURL,
		embeddingURL:  embeddingURL,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

// Classify sends raw image bytes and returns predicted labels with scores.
func (c *HuggingFaceClient) Classify(ctx context.Context, imageData []byte) ([]Label, error) {
	respBody, err := c.post(ctx, c.classifierURL, "application/octet-stream", imageData)
	if err != nil {
		return nil, errors.ServiceUnavailable("Image classification failed", err)
	}

	var labels []Label
	if err := json.Unmarshal(respBody, &labels); err != nil {
		return nil, errors.ServiceUnavailable("Failed to parse classifier response", err)
	}

	return labels, nil
}

type embeddingRequest struct {
	Inputs string `json:"inputs"`
}

// Embed returns the sentence embedding for text.
func (c *HuggingFaceClient) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(embeddingRequest{Inputs: text})
	if err != nil {
		return nil, errors.Internal("Failed to marshal embedding request", err)
	}

	respBody, err := c.post(ctx, c.embeddingURL, "application/json", payload)
	if err != nil {
		return nil, errors.ServiceUnavailable("Text embedding failed", err)
	}

	var embedding []float32
	if err := json.Unmarshal(respBody, &embedding); err != nil {
		// Some models wrap the vector in an extra array.
		var nested [][]float32
		if err := json.Unmarshal(respBody, &nested); err != nil || len(nested) == 0 {
			return nil, errors.ServiceUnavailable("Failed to parse embedding response", err)
		}
		embedding = nested[0]
	}

	return embedding, nil
}

func (c *HuggingFaceClient) post(ctx context.Context, url, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read huggingface response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warn("HuggingFace %s returned status %d: %s", url, resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("huggingface returned status %d", resp.StatusCode)
	}

	return respBody, nil
}
