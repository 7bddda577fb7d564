package llm

import (
	"context"
	"time"

	"github.com/abhisek/coinquest/internal/logger"
	"github.com/abhisek/coinquest/internal/store"
)

// RecordingProvider logs every call and appends it to the event store.
type RecordingProvider struct {
	inner  Provider
	vendor string
	repo   store.EventRepo
	log    *logger.Logger
	now    func() time.Time
}

// WithRecording wraps p. Either repo or log may be nil.
func WithRecording(p Provider, vendor string, repo store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordingProvider{inner: p, vendor: vendor, repo: repo, log: log, now: time.Now}
}

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := r.now()
	resp, err := r.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  r.vendor,
		Model:     r.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: r.now().Sub(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	fields := []interface{}{
		"provider", data.Provider, "model", data.Model, "purpose", data.Purpose,
		"latency_ms", data.LatencyMs, "input_tokens", data.InputTokens, "output_tokens", data.OutputTokens,
	}
	if cost, ok := EstimateCost(data.Model, data.InputTokens, data.OutputTokens); ok {
		fields = append(fields, "cost_usd", cost)
	}
	if err != nil {
		r.log.Warn("llm request failed", append(fields, "error", err)...)
	} else {
		r.log.Info("llm request", fields...)
	}

	if r.repo != nil {
		// A failed write must not fail the generation.
		if werr := r.repo.AppendLLMRequest(ctx, data); werr != nil {
			r.log.Warn("record llm request", "error", werr)
		}
	}
	return resp, err
}

func (r *RecordingProvider) ModelID() string { return r.inner.ModelID() }
