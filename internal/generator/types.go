package generator

// Request is the body of POST /api/generator/generate.
type Request struct {
	WorkingTitle       string   `json:"working_title"`
	PracticeTestTitle  string   `json:"practice_test_title"`
	Category           string   `json:"category"`
	LearningObjectives []string `json:"learning_objectives"`
	Requirements       string   `json:"requirements"`
	TargetAudience     string   `json:"target_audience"`
	DifficultyLevel    string   `json:"difficulty_level"`
	NumQuestions       int      `json:"num_questions"`
	QuestionFormats    []string `json:"question_formats"`
	ExplanationStyle   string   `json:"explanation_style"`
}

// Form holds the raw field values as a front end collected them. it is also
// the shape of a YAML form file for `ptb generate --form`.
type Form struct {
	WorkingTitle       string   `yaml:"working_title"`
	PracticeTestTitle  string   `yaml:"practice_test_title"`
	Category           string   `yaml:"category"`
	LearningObjectives []string `yaml:"learning_objectives"`
	Requirements       string   `yaml:"requirements"`
	TargetAudience     string   `yaml:"target_audience"`
	DifficultyLevel    string   `yaml:"difficulty_level"`
	NumQuestions       string   `yaml:"num_questions"`
	QuestionFormats    []string `yaml:"question_formats"`
	ExplanationStyle   string   `yaml:"explanation_style"`
}

const (
	MinObjectives       = 4
	MaxObjectives       = 10
	ObjectiveMaxLength  = 160
	WorkingTitleMaxLen  = 100
	DefaultFormat       = "single-choice"
	DefaultRequirements = "No specific prerequisites"
	DefaultAudience     = "General learners"
)

// validation messages shown in the status line
const (
	MsgTooFewObjectives = "Please provide at least 4 learning objectives"
	MsgNoFormats        = "Please select at least one question format"
	MsgBadQuestionCount = "Please enter a valid number of questions"
)

var Categories = []string{
	"Development",
	"Business",
	"Finance & Accounting",
	"IT & Software",
	"Office Productivity",
	"Personal Development",
	"Design",
	"Marketing",
	"Health & Fitness",
	"Music",
	"Teaching & Academics",
	"Photography & Video",
	"Lifestyle",
}

var QuestionFormats = []string{
	"single-choice",
	"multiple-select",
	"true-false",
	"scenario-based",
}

var DifficultyLevels = []string{
	"beginner",
	"intermediate",
	"advanced",
	"mixed",
}

var ExplanationStyles = []string{
	"beginner-friendly",
	"technical",
	"very-detailed",
	"short-concise",
	"fun-casual",
	"academic",
}
