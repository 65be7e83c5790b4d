package whisper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abc123.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVEfmt "), 0o644))
	return path
}

func TestNew_Defaults(t *testing.T) {
	tr := New(Config{})

	assert.Equal(t, DefaultBaseURL, tr.baseURL)
	assert.Equal(t, DefaultModelSize, tr.cfg.ModelSize)
	assert.Equal(t, DefaultDevice, tr.cfg.Device)
	assert.Equal(t, DefaultCompute, tr.cfg.ComputeType)
	assert.Equal(t, DefaultTimeout, tr.client.Timeout)
}

func TestTranscribe_Success(t *testing.T) {
	audioPath := writeAudioFixture(t)

	gotFields := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		for _, k := range []string{"model", "device", "compute_type", "cpu_threads", "num_workers", "response_format"} {
			gotFields[k] = r.FormValue(k)
		}

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "abc123.wav", header.Filename)

		json.NewEncoder(w).Encode(transcribeResponse{
			Text:                "hello world",
			Language:            "en",
			LanguageProbability: 0.98,
			Segments: []domain.TranscriptSegment{
				{Start: 0, End: 1.5, Text: "hello world"},
			},
		})
	}))
	defer server.Close()

	tr := New(Config{
		BaseURL:    server.URL,
		ModelSize:  "small",
		Device:     "cuda",
		CPUThreads: 4,
		NumWorkers: 2,
	})
	transcript, err := tr.Transcribe(context.Background(), audioPath)

	require.NoError(t, err)
	assert.Equal(t, "small", gotFields["model"])
	assert.Equal(t, "cuda", gotFields["device"])
	assert.Equal(t, DefaultCompute, gotFields["compute_type"])
	assert.Equal(t, "4", gotFields["cpu_threads"])
	assert.Equal(t, "2", gotFields["num_workers"])
	assert.Equal(t, "verbose_json", gotFields["response_format"])
	assert.Equal(t, "hello world", transcript.Text)
	assert.Equal(t, "en", transcript.Language)
	assert.InDelta(t, 0.98, transcript.LanguageProbability, 1e-9)
	require.Len(t, transcript.Segments, 1)
	assert.InDelta(t, 1.5, transcript.Segments[0].End, 1e-9)
}

func TestTranscribe_MissingAudioFile(t *testing.T) {
	tr := New(Config{BaseURL: "http://localhost:0"})

	_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceFileMissing)
}

func TestTranscribe_ServerError(t *testing.T) {
	audioPath := writeAudioFixture(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model failed to load", http.StatusInternalServerError)
	}))
	defer server.Close()

	tr := New(Config{BaseURL: server.URL})
	_, err := tr.Transcribe(context.Background(), audioPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model failed to load")
}

func TestTranscribe_MalformedResponse(t *testing.T) {
	audioPath := writeAudioFixture(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	tr := New(Config{BaseURL: server.URL})
	_, err := tr.Transcribe(context.Background(), audioPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestTranscribe_ContextCancelled(t *testing.T) {
	audioPath := writeAudioFixture(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := New(Config{BaseURL: server.URL})
	_, err := tr.Transcribe(ctx, audioPath)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
