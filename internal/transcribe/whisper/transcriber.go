// Package whisper provides a Transcriber adapter backed by a
// faster-whisper inference server speaking the OpenAI-compatible
// audio transcription API.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
	"github.com/chanscribe/chanscribe/internal/logger"
)

// Ensure Transcriber implements the interface.
var _ driven.Transcriber = (*Transcriber)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "http://localhost:8200"
	DefaultModelSize = "medium"
	DefaultDevice    = "cpu"
	DefaultCompute   = "int8"
	// Transcription of long audio is slow even on a warm model.
	DefaultTimeout = 30 * time.Minute
)

// Config holds configuration for the whisper transcription service.
// Model parameters are forwarded to the server, which owns the loaded model.
type Config struct {
	// BaseURL is the inference server base URL.
	BaseURL string

	// ModelSize selects the whisper model (tiny, base, small, medium, large-v3).
	ModelSize string

	// Device is the inference device ("cpu", "cuda", "auto").
	Device string

	// ComputeType is the quantization ("float16", "float32", "int8").
	ComputeType string

	// CPUThreads bounds CPU inference threads.
	CPUThreads int

	// NumWorkers is the server-side parallelism for one request.
	NumWorkers int

	// BatchSize is the decode batch size.
	BatchSize int

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// Transcriber sends audio to the inference server and maps the verbose
// JSON response onto the domain transcript.
type Transcriber struct {
	client  *http.Client
	baseURL string
	cfg     Config
}

// New creates a transcriber, filling config defaults.
func New(cfg Config) *Transcriber {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ModelSize == "" {
		cfg.ModelSize = DefaultModelSize
	}
	if cfg.Device == "" {
		cfg.Device = DefaultDevice
	}
	if cfg.ComputeType == "" {
		cfg.ComputeType = DefaultCompute
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Transcriber{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		cfg:     cfg,
	}
}

// transcribeResponse is the server's verbose_json response format.
type transcribeResponse struct {
	Text                string                     `json:"text"`
	Language            string                     `json:"language"`
	LanguageProbability float64                    `json:"language_probability"`
	Segments            []domain.TranscriptSegment `json:"segments"`
}

// Transcribe uploads the audio file and returns its timed transcript.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (*domain.Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceFileMissing, audioPath)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	fields := map[string]string{
		"model":                     t.cfg.ModelSize,
		"device":                    t.cfg.Device,
		"compute_type":              t.cfg.ComputeType,
		"response_format":           "verbose_json",
		"timestamp_granularities[]": "word",
	}
	if t.cfg.CPUThreads > 0 {
		fields["cpu_threads"] = strconv.Itoa(t.cfg.CPUThreads)
	}
	if t.cfg.NumWorkers > 0 {
		fields["num_workers"] = strconv.Itoa(t.cfg.NumWorkers)
	}
	if t.cfg.BatchSize > 0 {
		fields["batch_size"] = strconv.Itoa(t.cfg.BatchSize)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write form field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.baseURL+"/v1/audio/transcriptions",
		&body,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	logger.Debug("Transcribing %s (model %s)", filepath.Base(audioPath), t.cfg.ModelSize)
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return nil, fmt.Errorf("whisper error (status %d)", resp.StatusCode)
		}
		return nil, fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, string(msg))
	}

	var parsed transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &domain.Transcript{
		Text:                parsed.Text,
		Language:            parsed.Language,
		LanguageProbability: parsed.LanguageProbability,
		Segments:            parsed.Segments,
	}, nil
}
