package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/internal/metrics"
	"github.com/gfgm/gfgm/backend/internal/types"
)

const maxAIResponseBytes = 5 << 20

// AIService forwards prediction requests to the external model service
type AIService struct {
	client   *http.Client
	endpoint string
	metrics  *metrics.Metrics
}

var _ IAIService = (*AIService)(nil)

func NewAIService(endpoint string, timeout time.Duration, m *metrics.Metrics) *AIService {
	return &AIService{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		metrics:  m,
	}
}

// Predict posts payload to the model service and returns its JSON body unchanged
func (s *AIService) Predict(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(payload)) == 0 || !json.Valid(payload) {
		return nil, types.Validationf("request body must be valid JSON")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrAIUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log := logrus.WithField("endpoint", s.endpoint)

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.AIRequest("error")
		log.WithError(err).Error("AI service request failed")
		return nil, fmt.Errorf("%w: %v", types.ErrAIUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAIResponseBytes))
	if err != nil {
		s.metrics.AIRequest("error")
		return nil, fmt.Errorf("%w: reading response: %v", types.ErrAIUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.metrics.AIRequest("bad_status")
		log.WithField("status", resp.StatusCode).Error("AI service returned an error status")
		return nil, fmt.Errorf("%w: status %d", types.ErrAIUnavailable, resp.StatusCode)
	}
	if !json.Valid(body) {
		s.metrics.AIRequest("bad_body")
		return nil, fmt.Errorf("%w: response is not valid JSON", types.ErrAIUnavailable)
	}

	s.metrics.AIRequest("ok")
	return json.RawMessage(body), nil
}
