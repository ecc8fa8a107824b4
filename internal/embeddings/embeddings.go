// Package embeddings turns transcript text into vectors for similarity
// search.
package embeddings

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Dimensions of the embedding model output; the transcripts table's vector
// column must match.
const Dimensions = 1536

type Client struct {
	api *openai.Client
}

func New(apiKey string) *Client {
	return &Client{api: openai.NewClient(apiKey)}
}

// Embed converts text to an embedding vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.AdaEmbeddingV2,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response carried no data")
	}
	return resp.Data[0].Embedding, nil
}
