package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kinds of captured notifications
const (
	KindGeneric = "webhook"
	KindSuccess = "success"
	KindFail    = "fail"
	KindRefund  = "refund"
	KindCancel  = "cancel"
)

const (
	fileExt         = ".json"
	timestampLayout = "20060102_150405"
)

var emptyRecord = []byte("{}")

// Record is one captured notification
type Record struct {
	Filename string `json:"filename"`
	Kind     string `json:"kind"`
	Content  any    `json:"content"`
	Raw      string `json:"raw"`
}

// Store persists notifications as one file each under a directory.
// Files are created exclusively and never overwritten.
type Store struct {
	dir   string
	now   func() time.Time
	newID func() string
}

// NewStore creates a store rooted at dir; the directory is created on first write
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		now:   time.Now,
		newID: func() string { return ulid.Make().String() },
	}
}

// Dir returns the capture directory
func (s *Store) Dir() string {
	return s.dir
}

// Check reports whether the capture directory exists or can be created
func (s *Store) Check() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("webhook directory unavailable: %w", err)
	}
	return nil
}

// Receive normalizes body and writes it to a new file.
// Empty or unparseable bodies are stored as an empty JSON object.
func (s *Store) Receive(kind, contentType string, body []byte) (Record, error) {
	kind = sanitizeKind(kind)
	payload := normalizePayload(contentType, body)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Record{}, fmt.Errorf("failed to create webhook directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s%s", s.now().UTC().Format(timestampLayout), s.newID(), kind, fileExt)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Record{}, fmt.Errorf("failed to create webhook file: %w", err)
	}

	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(path)
		return Record{}, fmt.Errorf("failed to write webhook file: %w", err)
	}
	if err := f.Close(); err != nil {
		return Record{}, fmt.Errorf("failed to close webhook file: %w", err)
	}

	var content any
	_ = json.Unmarshal(payload, &content)

	return Record{Filename: name, Kind: kind, Content: content, Raw: string(payload)}, nil
}

// List returns all captured records, newest first.
// Unreadable or unparseable files are skipped.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to read webhook directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	records := make([]Record, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}

		var content any
		if err := json.Unmarshal(data, &content); err != nil {
			continue
		}

		records = append(records, Record{
			Filename: name,
			Kind:     kindFromName(name),
			Content:  content,
			Raw:      string(data),
		})
	}

	return records, nil
}

// normalizePayload returns JSON bytes for a JSON or form-encoded body
func normalizePayload(contentType string, body []byte) []byte {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return emptyRecord
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "application/x-www-form-urlencoded" && json.Valid([]byte(trimmed)) {
		return []byte(trimmed)
	}

	if mediaType == "application/x-www-form-urlencoded" || mediaType == "" {
		if form, err := url.ParseQuery(trimmed); err == nil && len(form) > 0 {
			return formJSON(form)
		}
	}

	return emptyRecord
}

func formJSON(form url.Values) []byte {
	out := make(map[string]any, len(form))
	for k, v := range form {
		if len(v) == 1 {
			out[k] = v[0]
		} else {
			out[k] = v
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return emptyRecord
	}
	return data
}

func sanitizeKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return KindGeneric
	}
	for _, r := range kind {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return KindGeneric
		}
	}
	return kind
}

// kindFromName extracts the kind from <date>_<time>_<id>_<kind>.json
func kindFromName(name string) string {
	base := strings.TrimSuffix(name, fileExt)
	if i := strings.LastIndex(base, "_"); i >= 0 {
		return base[i+1:]
	}
	return KindGeneric
}
