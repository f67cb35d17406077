package report

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/richhaase/buildwatch/internal/domain"
)

// Report is the JSON form of one build.
type Report struct {
	ID               string           `json:"id"`
	Command          string           `json:"command"`
	Arguments        []string         `json:"args"`
	WorkingDirectory string           `json:"workdir,omitempty"`
	Extractor        string           `json:"extractor"`
	Outcome          domain.Outcome   `json:"outcome"`
	ExitCode         int              `json:"exitCode"`
	DurationMS       int64            `json:"durationMs"`
	ParseError       string           `json:"parseError,omitempty"`
	SystemWarnings   int              `json:"systemWarnings,omitempty"`
	FinishedAt       time.Time        `json:"finishedAt"`
	Log              domain.ParsedLog `json:"log"`
}

// FromResult converts a build result.
func FromResult(result *domain.BuildResult, finishedAt time.Time) Report {
	r := Report{
		ID:               result.ID,
		Command:          result.Spec.Command,
		Arguments:        append([]string{}, result.Spec.Arguments...),
		WorkingDirectory: result.Spec.WorkingDirectory,
		Extractor:        result.Spec.ExtractorSelector,
		Outcome:          result.Outcome,
		ExitCode:         result.ExitCode,
		DurationMS:       result.Duration.Milliseconds(),
		SystemWarnings:   result.SystemWarnings,
		FinishedAt:       finishedAt.UTC(),
		Log:              result.Log.Clone(),
	}
	if result.ParseErr != nil {
		r.ParseError = result.ParseErr.Error()
	}
	return r
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	return writeIndented(w, r)
}

// WriteLogJSON writes a parsed log on its own as indented JSON.
func WriteLogJSON(w io.Writer, log domain.ParsedLog) error {
	return writeIndented(w, log)
}

func writeIndented(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}

// SaveJSON writes r to path, creating the directory if needed.
func SaveJSON(path string, r Report) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create report file")
	}
	if err := WriteJSON(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to close report file")
}

// LoadJSON reads a report written by SaveJSON.
func LoadJSON(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Report{}, errors.Newf("report file not found: %s", path)
		}
		return Report{}, errors.Wrap(err, "failed to read report file")
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, errors.Wrap(err, "failed to parse report file")
	}
	return r, nil
}
