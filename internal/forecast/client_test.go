package forecast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Sample(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []float64{100, 110}, req.Inputs)
		assert.Equal(t, 3, req.PredictionLength)
		assert.Equal(t, 4, req.NumSamples)

		json.NewEncoder(w).Encode(predictResponse{
			Samples: [][]float64{
				{120, 121, 122},
				{118, 119, 120},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	samples, err := client.Sample(context.Background(), []float64{100, 110}, 3, 4)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, []float64{120, 121, 122}, samples[0])
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 400 is not retried, unlike 5xx, so the test stays fast.
		http.Error(w, "prediction_length must be positive", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Sample(context.Background(), []float64{1}, 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 400")
}
