package generator

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/practicetestbulk/client/internal/errors"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// turns raw form values into a request, enforcing the local rules. a
// violation returns a validation error and the caller must not submit.
func Collect(f Form) (Request, error) {
	objectives := make([]string, 0, len(f.LearningObjectives))
	for _, o := range f.LearningObjectives {
		if o = strings.TrimSpace(o); o != "" {
			objectives = append(objectives, o)
		}
	}

	formats := make([]string, 0, len(f.QuestionFormats))
	for _, q := range f.QuestionFormats {
		if q = strings.TrimSpace(q); q != "" {
			formats = append(formats, q)
		}
	}

	// an empty selection falls back to the default format; the emptiness
	// check below is kept as its own rule
	if len(formats) == 0 {
		formats = []string{DefaultFormat}
	}

	req := Request{
		WorkingTitle:       strings.TrimSpace(f.WorkingTitle),
		PracticeTestTitle:  strings.TrimSpace(f.PracticeTestTitle),
		Category:           f.Category,
		LearningObjectives: objectives,
		Requirements:       orDefault(f.Requirements, DefaultRequirements),
		TargetAudience:     orDefault(f.TargetAudience, DefaultAudience),
		DifficultyLevel:    f.DifficultyLevel,
		QuestionFormats:    formats,
		ExplanationStyle:   f.ExplanationStyle,
	}

	if len(req.LearningObjectives) < MinObjectives {
		return Request{}, errors.Validation(MsgTooFewObjectives)
	}

	if len(req.QuestionFormats) == 0 {
		return Request{}, errors.Validation(MsgNoFormats)
	}

	n, err := strconv.Atoi(strings.TrimSpace(f.NumQuestions))
	if err != nil || n < 1 {
		return Request{}, errors.Validation(MsgBadQuestionCount)
	}
	req.NumQuestions = n

	return req, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}

	return def
}

// file name for a downloaded test, e.g. "Go_Basics_practice_test.csv"
func DownloadFilename(workingTitle string) string {
	base := unsafeFilenameChars.ReplaceAllString(workingTitle, "_")
	if base == "" {
		base = "untitled"
	}

	return base + "_practice_test.csv"
}

// counts question rows in a downloaded CSV (header excluded)
func SummarizeCSV(data []byte) (int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	rows := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return 0, fmt.Errorf("failed to read csv: %w", err)
		}

		rows++
	}

	if rows == 0 {
		return 0, nil
	}

	return rows - 1, nil
}
