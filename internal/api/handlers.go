package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rentalytics.io/rental-agent/internal/core"
	"rentalytics.io/rental-agent/internal/forecast"
)

// Agent runs one conversation turn to completion.
type Agent interface {
	Run(ctx context.Context, sessionID, userText string, emit func(core.Chunk)) (string, error)
}

type APIHandler struct {
	agent  Agent
	charts *forecast.Gallery
}

func NewAPIHandler(agent Agent, charts *forecast.Gallery) *APIHandler {
	return &APIHandler{agent: agent, charts: charts}
}

type QueryRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type QueryResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
	ChartID   string `json:"chart_id,omitempty"`
}

func (h *APIHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Message cannot be empty", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	answer, err := h.agent.Run(r.Context(), req.SessionID, req.Message, nil)
	if err != nil {
		log.Printf("Error running agent for session %s: %v", req.SessionID, err)
		http.Error(w, "Failed to process query", http.StatusInternalServerError)
		return
	}

	resp := QueryResponse{
		SessionID: req.SessionID,
		Answer:    answer,
	}
	if chartID, ok := h.charts.TakeLatest(); ok {
		resp.ChartID = chartID
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) ChartHandler(w http.ResponseWriter, r *http.Request) {
	chartID := chi.URLParam(r, "chartID")

	png, ok := h.charts.Get(chartID)
	if !ok {
		http.Error(w, "Chart not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
