package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/task"
)

// taskDocument is the wrapped file layout: a top-level "tasks" key. Bare
// top-level lists are also accepted.
type taskDocument struct {
	Tasks []task.RawRecord `json:"tasks" yaml:"tasks"`
}

// FileSource reads task records from a local JSON or YAML file.
type FileSource struct {
	path   string
	logger *logging.Logger
}

// NewFileSource creates a source backed by the file at path. The format is
// chosen by extension: .yaml/.yml decode as YAML, everything else as JSON.
func NewFileSource(path string, logger *logging.Logger) *FileSource {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &FileSource{path: path, logger: logger}
}

// Name implements Source.
func (s *FileSource) Name() string {
	return "file"
}

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) ([]task.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewTrackerError(
				fmt.Sprintf("task file %s does not exist", s.path),
				errors.ErrTaskFileNotFound,
			).WithSource(s.Name())
		}
		return nil, errors.NewTrackerError(
			fmt.Sprintf("reading task file %s", s.path), err,
		).WithSource(s.Name())
	}

	records, err := decodeRecords(s.path, data)
	if err != nil {
		return nil, errors.NewTrackerError(
			fmt.Sprintf("parsing task file %s", s.path), err,
		).WithSource(s.Name())
	}

	s.logger.WithSource(s.Name()).Debug("loaded task file",
		"path", s.path, "records", len(records))
	return records, nil
}

// decodeRecords decodes the file contents, accepting either a bare list of
// records or a document with a top-level "tasks" key.
func decodeRecords(path string, data []byte) ([]task.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var records []task.RawRecord
		if err := yaml.Unmarshal(data, &records); err == nil {
			return records, nil
		}
		var doc taskDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Tasks, nil
	default:
		var records []task.RawRecord
		if err := json.Unmarshal(data, &records); err == nil {
			return records, nil
		}
		var doc taskDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Tasks, nil
	}
}
