package models

// Announcement is a read-only projection of a rejected order request, shaped
// for notification rendering. It is never persisted.
type Announcement struct {
	OrderRequestID uint     `json:"order_request_id"`
	RequestNumber  uint     `json:"request_number"`
	RejectedReason string   `json:"rejected_reason"`
	CreatedAt      string   `json:"created_at"`
	ItemNames      []string `json:"item_names"`
}
