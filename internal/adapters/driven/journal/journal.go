// Package journal persists per-video outcomes as append-only text files,
// mirroring yt-dlp's download-archive line format for the success log.
package journal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
)

// File names within the channel directory.
const (
	downloadedFile = "downloaded_videos.txt"
	failedFile     = "failed_downloads.txt"
)

// FileJournal appends outcome lines under a channel directory. A mutex
// serializes appends so concurrent workers never interleave lines.
type FileJournal struct {
	mu  sync.Mutex
	dir string
}

var _ driven.Journal = (*FileJournal)(nil)

// New creates a journal rooted at dir, creating it if needed.
func New(dir string) (*FileJournal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	return &FileJournal{dir: dir}, nil
}

// RecordDownloaded appends one success line in yt-dlp archive format.
func (j *FileJournal) RecordDownloaded(videoID string) error {
	return j.appendLine(downloadedFile, fmt.Sprintf("youtube %s\n", videoID))
}

// RecordFailure appends one tab-separated failure line with a timestamp
// and the final error message.
func (j *FileJournal) RecordFailure(videoID string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		// Keep the line single-line; the cause may carry newlines.
		msg = strings.ReplaceAll(cause.Error(), "\n", " ")
	}
	ts := time.Now().UTC().Format(time.RFC3339)
	return j.appendLine(failedFile, fmt.Sprintf("%s\t%s\t%s\n", videoID, ts, msg))
}

// Downloaded returns the set of video IDs already recorded as downloaded.
// A missing file means an empty set, not an error.
func (j *FileJournal) Downloaded() (map[string]bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(filepath.Join(j.dir, downloadedFile))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("opening download journal: %w", err)
	}
	defer f.Close()

	ids := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// Lines read "youtube <id>"; tolerate bare IDs from hand edits.
		switch len(fields) {
		case 1:
			ids[fields[0]] = true
		case 2:
			ids[fields[1]] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading download journal: %w", err)
	}

	return ids, nil
}

func (j *FileJournal) appendLine(name, line string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(j.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("appending to %s: %w", name, err)
	}
	return nil
}
