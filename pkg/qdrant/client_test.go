package qdrant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"helpdesk-automation/pkg/qdrant"
)

func TestQdrantClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case r.Method == http.MethodGet && path == "/collections/known":
			w.Write([]byte(`{"result":{}}`))
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && strings.HasSuffix(path, "/points"):
			var req qdrant.UpsertPointsRequest
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Points) > 0 && req.Points[0].Payload["cause_500"] == true {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut:
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPost && strings.HasSuffix(path, "/points/search"):
			var req qdrant.SearchRequest
			json.NewDecoder(r.Body).Decode(&req)
			if !req.WithVector {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"result":[{"id":"a1","score":0.91,"payload":{"text":"Reset via settings"},"vector":[1,0]}]}`))
		case r.Method == http.MethodPost && strings.HasSuffix(path, "/points/count"):
			w.Write([]byte(`{"result":{"count":7}}`))
		case r.Method == http.MethodPost && strings.HasSuffix(path, "/points/delete"):
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := qdrant.NewClient(ts.URL + "/")
	ctx := context.Background()

	t.Run("CollectionExists", func(t *testing.T) {
		ok, err := client.CollectionExists(ctx, "known")
		if err != nil || !ok {
			t.Errorf("known: ok=%v err=%v", ok, err)
		}
		ok, err = client.CollectionExists(ctx, "missing")
		if err != nil || ok {
			t.Errorf("missing: ok=%v err=%v", ok, err)
		}
	})

	t.Run("CreateCollection", func(t *testing.T) {
		err := client.CreateCollection(ctx, qdrant.CreateCollectionRequest{
			Name:    "kb",
			Vectors: qdrant.VectorConfig{Size: 2, Distance: "Cosine"},
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("UpsertPoints", func(t *testing.T) {
		err := client.UpsertPoints(ctx, "kb", qdrant.UpsertPointsRequest{
			Points: []qdrant.Point{{ID: "a1", Vector: []float32{1, 0}, Payload: map[string]interface{}{"text": "x"}}},
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		err = client.UpsertPoints(ctx, "kb", qdrant.UpsertPointsRequest{
			Points: []qdrant.Point{{ID: "a2", Payload: map[string]interface{}{"cause_500": true}}},
		})
		if err == nil {
			t.Error("expected error on 500")
		}
	})

	t.Run("SearchPoints", func(t *testing.T) {
		resp, err := client.SearchPoints(ctx, "kb", qdrant.SearchRequest{
			Vector: []float32{1, 0}, Limit: 5, WithPayload: true, WithVector: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Result) != 1 || resp.Result[0].Score != 0.91 || len(resp.Result[0].Vector) != 2 {
			t.Errorf("unexpected result: %+v", resp.Result)
		}
	})

	t.Run("CountPoints", func(t *testing.T) {
		n, err := client.CountPoints(ctx, "kb")
		if err != nil || n != 7 {
			t.Errorf("CountPoints() = %d, %v; want 7", n, err)
		}
	})

	t.Run("DeletePoints", func(t *testing.T) {
		if err := client.DeletePoints(ctx, "kb", []string{"a1"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
