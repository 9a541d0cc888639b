package insights

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

type WorkforceRequest struct {
	Refresh bool `form:"refresh"`
}

type InsightResponse struct {
	Insight     string   `json:"insight"`
	Source      string   `json:"source"`
	GeneratedAt string   `json:"generated_at"`
	Snapshot    Snapshot `json:"snapshot"`
}
