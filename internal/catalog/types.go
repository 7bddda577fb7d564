package catalog

// Question is a single multiple-choice question inside a lesson.
type Question struct {
	Prompt      string   `yaml:"prompt" json:"prompt" validate:"required"`
	Options     []string `yaml:"options" json:"options" validate:"min=2,dive,required"`
	Correct     int      `yaml:"correct" json:"correct" validate:"gte=0"`
	Explanation string   `yaml:"explanation" json:"explanation"`
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ""
	}
	return q.Options[q.Correct]
}

// Lesson is a unit of content followed by an ordered set of questions.
// Its position in the catalog defines the prerequisite chain.
type Lesson struct {
	Name        string     `yaml:"name" json:"name" validate:"required"`
	Level       int        `yaml:"level" json:"level" validate:"gte=1"`
	Description string     `yaml:"description" json:"description"`
	Content     string     `yaml:"content" json:"content"`
	Questions   []Question `yaml:"questions" json:"questions" validate:"min=1,dive"`
}

// QuestionCount returns the number of questions in the lesson.
func (l Lesson) QuestionCount() int {
	return len(l.Questions)
}

// clone returns a deep copy so callers can't mutate catalog data.
func (l Lesson) clone() Lesson {
	out := l
	out.Questions = make([]Question, len(l.Questions))
	for i, q := range l.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}

// document is the on-disk YAML layout of a catalog file.
type document struct {
	Version string   `yaml:"version"`
	Lessons []Lesson `yaml:"lessons"`
}
