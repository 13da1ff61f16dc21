package voyage_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"helpdesk-automation/pkg/voyage"
)

func TestVoyageClient(t *testing.T) {
	var (
		mu         sync.Mutex
		inputTypes []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-voyage-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Provided API key is invalid."}`))
			return
		}

		var req voyage.EmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Model != "custom-model" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if len(req.Input) > 0 && req.Input[0] == "cause_500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		mu.Lock()
		inputTypes = append(inputTypes, req.InputType)
		mu.Unlock()

		// answer out of order to check index placement
		w.Write([]byte(`{"data": [
			{"embedding": [0.4, 0.5], "index": 1},
			{"embedding": [0.1, 0.2], "index": 0}
		]}`))
	}))
	defer ts.Close()

	client, _ := voyage.New("test-voyage-key")
	client.WithBaseURL(ts.URL + "/").WithModel("custom-model")

	t.Run("query and document modes", func(t *testing.T) {
		emb, err := client.Embed(context.Background(), []string{"first", "second"})
		if err != nil {
			t.Fatalf("Embed() error = %v", err)
		}
		if len(emb) != 2 || emb[0][0] != 0.1 || emb[1][0] != 0.4 {
			t.Errorf("unexpected embeddings: %v", emb)
		}
		if _, err := client.EmbedDocuments(context.Background(), []string{"a", "b"}); err != nil {
			t.Fatalf("EmbedDocuments() error = %v", err)
		}
		if len(inputTypes) != 2 || inputTypes[0] != voyage.InputTypeQuery || inputTypes[1] != voyage.InputTypeDocument {
			t.Errorf("input types = %v", inputTypes)
		}
	})

	t.Run("server error", func(t *testing.T) {
		_, err := client.Embed(context.Background(), []string{"cause_500", "x"})
		var apiErr *voyage.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
			t.Fatalf("expected 500 APIError, got %v", err)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		badClient, _ := voyage.New("bad-key")
		badClient.WithBaseURL(ts.URL)
		_, err := badClient.Embed(context.Background(), []string{"Hello world"})
		var apiErr *voyage.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Provided API key is invalid." {
			t.Fatalf("expected 401 APIError, got %v", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if _, err := client.Embed(context.Background(), nil); err == nil {
			t.Fatal("expected error for empty input")
		}
	})
}

func TestVoyageClient_Batches(t *testing.T) {
	var sizes []int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req voyage.EmbedRequest
		json.NewDecoder(r.Body).Decode(&req)
		sizes = append(sizes, len(req.Input))

		resp := voyage.EmbedResponse{}
		for i, text := range req.Input {
			resp.Data = append(resp.Data, voyage.EmbeddingData{Index: i, Embedding: []float32{float32(len(text))}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	client, _ := voyage.New("k")
	client.WithBaseURL(ts.URL).WithBatchSize(2)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	emb, err := client.EmbedDocuments(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedDocuments() error = %v", err)
	}
	if len(sizes) != 3 || sizes[0] != 2 || sizes[2] != 1 {
		t.Errorf("request sizes = %v, want [2 2 1]", sizes)
	}
	for i, text := range texts {
		if emb[i][0] != float32(len(text)) {
			t.Errorf("emb[%d] = %v, want %d", i, emb[i], len(text))
		}
	}
}
