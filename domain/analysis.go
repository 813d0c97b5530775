package domain

// AnalysisMode selects how much job context and guidance the analysis prompt carries.
type AnalysisMode string

const (
	AnalysisModeBasic    AnalysisMode = "basic"
	AnalysisModeEnhanced AnalysisMode = "enhanced"
)

func (m AnalysisMode) Valid() bool {
	return m == AnalysisModeBasic || m == AnalysisModeEnhanced
}

const (
	MinScore = 1
	MaxScore = 100
)

type ExperienceEntry struct {
	Title   string   `json:"title"`
	Company string   `json:"company"`
	Years   *float64 `json:"years"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        *int   `json:"year"`
}

// AnalysisResult is the validated and normalized output of one model call.
// It is never persisted as is; the pipeline maps it onto a Resume.
type AnalysisResult struct {
	Score              int               `json:"score"`
	MatchScore         int               `json:"matchScore"`
	Feedback           AIFeedback        `json:"feedback"`
	SuggestedQuestions []string          `json:"suggestedQuestions"`
	Experience         []ExperienceEntry `json:"experience"`
	Education          []EducationEntry  `json:"education"`
}
