package languagetool

// Level is the strictness LanguageTool checks with.
type Level string

const (
	LevelDefault Level = "default"
	LevelPicky   Level = "picky"
)

// Request is one text submitted for checking.
type Request struct {
	Text               string
	Language           string
	Level              Level
	DisabledRules      []string
	DisabledCategories []string
}

// Response lists the matches reported for a request, in service order.
type Response struct {
	Language string
	Matches  []Match
}

// Match is one reported issue. Offset and Length are byte positions in the
// submitted text.
type Match struct {
	Offset       int
	Length       int
	ShortMessage string
	Message      string
	Replacements []string
	RuleID       string
	CategoryID   string
	Context      string
}

// wire format of /v2/check

type checkResponse struct {
	Language struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"language"`
	Matches []checkMatch `json:"matches"`
}

type checkMatch struct {
	Message      string `json:"message"`
	ShortMessage string `json:"shortMessage"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
	Offset  int `json:"offset"`
	Length  int `json:"length"`
	Context struct {
		Text   string `json:"text"`
		Offset int    `json:"offset"`
		Length int    `json:"length"`
	} `json:"context"`
	Rule struct {
		ID       string `json:"id"`
		Category struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"category"`
	} `json:"rule"`
}
