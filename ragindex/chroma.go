package ragindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"biaslens/nlp"

	log "github.com/sirupsen/logrus"
)

// ChromaConfig holds configuration for a Chroma connection.
type ChromaConfig struct {
	Host           string
	Port           int
	CollectionName string
}

// ChromaCollection wraps one collection of the Chroma REST v2 API.
// Chroma v2 expects client-supplied embeddings for both adds and queries,
// so the collection carries an embedder. The collection is created fresh
// with a unique name and removed again by Destroy, which keeps the index
// ephemeral even though the server outlives the request.
type ChromaCollection struct {
	baseURL        string
	tenant         string
	database       string
	collectionName string
	collectionID   string
	httpClient     *http.Client
	embedder       nlp.Embedder
}

// NewChromaCollection creates the named collection on the server.
func NewChromaCollection(config ChromaConfig, embedder nlp.Embedder) (*ChromaCollection, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embeddings provider not configured")
	}
	port := config.Port
	if port == 0 {
		port = 8000
	}

	c := &ChromaCollection{
		baseURL:        fmt.Sprintf("http://%s:%d/api/v2", config.Host, port),
		tenant:         "default_tenant",
		database:       "default_database",
		collectionName: config.CollectionName,
		httpClient:     &http.Client{},
		embedder:       embedder,
	}

	createURL := fmt.Sprintf("%s/tenants/%s/databases/%s/collections", c.baseURL, c.tenant, c.database)
	payload := map[string]interface{}{
		"name": config.CollectionName,
		"metadata": map[string]interface{}{
			"description": "biaslens per-request retrieval collection",
		},
		"get_or_create": true,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(createURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to create collection (status %d): %s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}
	id, ok := result["id"].(string)
	if !ok {
		return nil, fmt.Errorf("collection response missing id: %s", string(body))
	}
	c.collectionID = id

	log.Printf("Created retrieval collection: %s", config.CollectionName)
	return c, nil
}

func (c *ChromaCollection) collectionURL() string {
	return fmt.Sprintf("%s/tenants/%s/databases/%s/collections/%s", c.baseURL, c.tenant, c.database, c.collectionID)
}

// Add embeds and stores all chunks in one request.
func (c *ChromaCollection) Add(chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	documents := make([]string, len(chunks))
	metadatas := make([]map[string]interface{}, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		documents[i] = chunk.Text
		metadatas[i] = map[string]interface{}{
			"source": chunk.SourceURL,
			"title":  chunk.SourceTitle,
		}
		ids[i] = "doc_" + strconv.Itoa(i)
	}

	embs, err := c.embedder.EmbedTexts(documents)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	payload := map[string]interface{}{
		"documents":  documents,
		"metadatas":  metadatas,
		"ids":        ids,
		"embeddings": embs,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(fmt.Sprintf("%s/add", c.collectionURL()), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to add documents: %s", string(body))
	}
	return nil
}

// Query returns up to k nearest chunk texts by embedding similarity.
func (c *ChromaCollection) Query(ctx context.Context, text string, k int) ([]string, error) {
	embs, err := c.embedder.EmbedTexts([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embeddings: %w", err)
	}

	payload := map[string]interface{}{
		"n_results":        k,
		"include":          []string{"documents", "distances"},
		"query_embeddings": embs,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/query", c.collectionURL()), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to query collection: %s", string(body))
	}

	var result struct {
		Documents [][]string `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Documents) == 0 {
		return nil, nil
	}
	return result.Documents[0], nil
}

// Destroy deletes the collection from the server.
func (c *ChromaCollection) Destroy() error {
	url := fmt.Sprintf("%s/tenants/%s/databases/%s/collections/%s", c.baseURL, c.tenant, c.database, c.collectionName)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete collection: %s", string(body))
	}
	log.Printf("Deleted retrieval collection: %s", c.collectionName)
	return nil
}
