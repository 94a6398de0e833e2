package internal

type ContactAction string

const (
	ActionFlattened   ContactAction = "flattened"
	ActionUnchanged   ContactAction = "unchanged"
	ActionRemoved     ContactAction = "removed"
	ActionPassthrough ContactAction = "passthrough"
)

type ContactChange struct {
	Path     string
	Field    string
	Owner    *string
	KindFrom string
	Action   ContactAction
	Cleaned  *string
	Email    *string
}

type RunCounts struct {
	Records       int `json:"records"`
	Visited       int `json:"visited"`
	Flattened     int `json:"flattened"`
	Unchanged     int `json:"unchanged"`
	Removed       int `json:"removed"`
	Passthrough   int `json:"passthrough"`
	EmailsHoisted int `json:"emailsHoisted"`
}

type RunRow struct {
	ID         int64
	TraceID    string
	InputPath  string
	OutputPath string
	InputHash  string
	Counts     RunCounts
	Timings    map[string]float64
	CreatedAt  string
}
