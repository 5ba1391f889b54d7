// Package gemini implements sitetext.Embedder and sitetext.TokenCounter
// using Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/sitetext"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is the embedding model used unless WithModel is given.
const DefaultEmbeddingModel = "gemini-embedding-001"

// MaxBatchSize is the most texts sent in one embedding request.
const MaxBatchSize = 100

// Task types tell the model how the vectors will be compared.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Ensure Embedder implements sitetext.Embedder at compile time.
var _ sitetext.Embedder = (*Embedder)(nil)

// Embedder implements sitetext.Embedder using the Gemini embeddings API.
type Embedder struct {
	client     *genai.Client
	model      string
	taskType   string
	dimensions int32
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithModel sets the embedding model.
func WithModel(model string) EmbedderOption {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithTaskType sets the task type sent with each text.
// Defaults to TaskRetrievalDocument.
func WithTaskType(taskType string) EmbedderOption {
	return func(e *Embedder) {
		e.taskType = taskType
	}
}

// WithDimensions truncates output vectors to n dimensions.
// Zero keeps the model default.
func WithDimensions(n int) EmbedderOption {
	return func(e *Embedder) {
		e.dimensions = int32(n)
	}
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		client:   client,
		model:    DefaultEmbeddingModel,
		taskType: TaskRetrievalDocument,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns one vector per text, in input order. Texts are sent in
// batches of at most MaxBatchSize.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	for i, text := range texts {
		if text == "" {
			return nil, sitetext.Errorf(sitetext.EINVALID, "text %d is empty", i)
		}
	}

	config := &genai.EmbedContentConfig{TaskType: e.taskType}
	if e.dimensions > 0 {
		config.OutputDimensionality = &e.dimensions
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += MaxBatchSize {
		batch := texts[start:min(start+MaxBatchSize, len(texts))]

		contents := make([]*genai.Content, len(batch))
		for i, text := range batch {
			contents[i] = genai.NewContentFromText(text, genai.RoleUser)
		}

		resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
		if err != nil {
			return nil, err
		}
		if resp == nil || len(resp.Embeddings) != len(batch) {
			return nil, sitetext.Errorf(sitetext.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(resp), len(batch))
		}

		for _, emb := range resp.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				return nil, sitetext.Errorf(sitetext.EINTERNAL, "gemini returned an empty embedding")
			}
			vectors = append(vectors, emb.Values)
		}
	}

	return vectors, nil
}

func embeddingCount(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}
