package models

// Moderator feed event types, published over Redis and broadcast to
// connected moderator WebSocket clients.
const (
	EventReportNew     = "report.new"
	EventCrisisNew     = "crisis.new"
	EventDisputeNew    = "dispute.new"
	EventContentStatus = "content.status"
	EventError         = "error"
)

type FeedEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// ClassifyJob is the payload published to the classification queue.
type ClassifyJob struct {
	ContentID   string `json:"content_id"`
	ContentType string `json:"content_type"`
}
