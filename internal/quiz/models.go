package quiz

// QuestionType discriminates the question variants. Adding a type means
// extending the switches in validator.go and payload.go.
type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	MultiChoice  QuestionType = "multi_choice"
	TrueFalse    QuestionType = "true_false"
	Likert       QuestionType = "likert"
	FreeText     QuestionType = "free_text"
)

// Scored reports whether the type carries a correctness notion. Likert and
// free-text answers measure opinion/completion and are never wrong.
func (t QuestionType) Scored() bool {
	switch t {
	case SingleChoice, MultiChoice, TrueFalse:
		return true
	default:
		return false
	}
}

type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// Question is one entry of a quiz. Position is unique within a quiz and
// defines presentation order. Only the fields matching Type are meaningful:
// Options for single/multi choice, CorrectBool for true/false, the Scale*
// fields for likert, MinLength for free text.
type Question struct {
	ID       string       `json:"id"`
	Position int          `json:"position"`
	Type     QuestionType `json:"type"`
	Prompt   string       `json:"prompt"`

	Options     []Option `json:"options,omitempty"`
	CorrectBool bool     `json:"correct_bool,omitempty"`
	ScaleMin    int      `json:"scale_min,omitempty"`
	ScaleMax    int      `json:"scale_max,omitempty"`
	ScaleMinLbl string   `json:"scale_min_label,omitempty"`
	ScaleMaxLbl string   `json:"scale_max_label,omitempty"`
	MinLength   int      `json:"min_length,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// Answer is the submitted value for one question. Exactly one variant per
// question type; the engine never interprets an answer against a question of
// a mismatched type.
type Answer interface{ isAnswer() }

// OptionAnswer is a single selected option id.
type OptionAnswer string

// OptionSetAnswer is the set of selected option ids (order/duplicates ignored).
type OptionSetAnswer []string

// BoolAnswer is a true/false selection.
type BoolAnswer bool

// ScaleAnswer is the chosen likert scale value.
type ScaleAnswer int

// TextAnswer is a free-text response.
type TextAnswer string

func (OptionAnswer) isAnswer()    {}
func (OptionSetAnswer) isAnswer() {}
func (BoolAnswer) isAnswer()      {}
func (ScaleAnswer) isAnswer()     {}
func (TextAnswer) isAnswer()      {}

// Verification is the per-question status shown alongside an in-progress
// attempt.
type Verification string

const (
	Unverified Verification = "unverified"
	Correct    Verification = "correct"
	Incorrect  Verification = "incorrect"
	Incomplete Verification = "incomplete"
)

// ScoreResult is derived from an attempt on demand; it is never stored on
// the attempt itself.
type ScoreResult struct {
	CorrectCount int  `json:"correct_count"`
	TotalCount   int  `json:"total_count"`
	Percentage   int  `json:"percentage"`
	Passed       bool `json:"passed"`
}
