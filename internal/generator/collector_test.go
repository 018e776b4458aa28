package generator

import (
	"strings"
	"testing"

	"codeberg.org/practicetestbulk/client/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		WorkingTitle:      "  Go Basics ",
		PracticeTestTitle: "Practice Test 1",
		Category:          "Development",
		LearningObjectives: []string{
			"Declare variables",
			"Write functions",
			"Use slices",
			"Handle errors",
		},
		DifficultyLevel:  "beginner",
		NumQuestions:     "10",
		QuestionFormats:  []string{"single-choice", "true-false"},
		ExplanationStyle: "technical",
	}
}

func TestCollect_Valid(t *testing.T) {
	req, err := Collect(validForm())

	require.NoError(t, err)
	assert.Equal(t, "Go Basics", req.WorkingTitle)
	assert.Equal(t, 10, req.NumQuestions)
	assert.Equal(t, DefaultRequirements, req.Requirements)
	assert.Equal(t, DefaultAudience, req.TargetAudience)
	assert.Equal(t, []string{"single-choice", "true-false"}, req.QuestionFormats)
	assert.Len(t, req.LearningObjectives, 4)
}

func TestCollect_ObjectiveThreshold(t *testing.T) {
	tests := []struct {
		name       string
		objectives []string
		wantErr    bool
	}{
		{
			name:       "three objectives rejected",
			objectives: []string{"a", "b", "c"},
			wantErr:    true,
		},
		{
			name:       "four objectives accepted",
			objectives: []string{"a", "b", "c", "d"},
			wantErr:    false,
		},
		{
			name:       "blank entries do not count",
			objectives: []string{"a", "  ", "b", "", "c", "\t"},
			wantErr:    true,
		},
		{
			name:       "whitespace is trimmed before counting",
			objectives: []string{" a ", "b ", " c", "d", "   "},
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			f.LearningObjectives = tt.objectives

			req, err := Collect(f)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.KindValidation, errors.KindOf(err))
				assert.Equal(t, MsgTooFewObjectives, errors.Message(err))
				return
			}

			require.NoError(t, err)
			for _, o := range req.LearningObjectives {
				assert.Equal(t, strings.TrimSpace(o), o)
			}
		})
	}
}

func TestCollect_EmptyFormatsDefault(t *testing.T) {
	f := validForm()
	f.QuestionFormats = nil

	req, err := Collect(f)

	require.NoError(t, err)
	assert.Equal(t, []string{DefaultFormat}, req.QuestionFormats)
}

func TestCollect_ObjectivesCheckedBeforeFormats(t *testing.T) {
	f := validForm()
	f.LearningObjectives = []string{"only one"}
	f.QuestionFormats = nil

	_, err := Collect(f)

	assert.Equal(t, MsgTooFewObjectives, errors.Message(err))
}

func TestCollect_QuestionCount(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-3"} {
		f := validForm()
		f.NumQuestions = raw

		_, err := Collect(f)

		assert.Equal(t, MsgBadQuestionCount, errors.Message(err), "input %q", raw)
	}
}

func TestCollect_KeepsProvidedDefaults(t *testing.T) {
	f := validForm()
	f.Requirements = " Basic Go "
	f.TargetAudience = "Backend devs"

	req, err := Collect(f)

	require.NoError(t, err)
	assert.Equal(t, "Basic Go", req.Requirements)
	assert.Equal(t, "Backend devs", req.TargetAudience)
}

func TestDownloadFilename(t *testing.T) {
	assert.Equal(t, "Go_Basics__2025__practice_test.csv", DownloadFilename("Go Basics (2025)"))
	assert.Equal(t, "untitled_practice_test.csv", DownloadFilename(""))
}

func TestSummarizeCSV(t *testing.T) {
	data := []byte("Question,Question Type,Answer Option 1\n" +
		"\"What is Go?\",multiple-choice,A language\n" +
		"\"Is Go typed?\",multiple-choice,Yes\n")

	rows, err := SummarizeCSV(data)

	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	rows, err = SummarizeCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, rows)
}
