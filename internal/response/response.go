package response

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every successful API response
type Envelope struct {
	// example: success
	Status string `json:"status"`

	// Operation payload, omitted when the operation returns nothing
	Content any `json:"content,omitempty"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	// Error code for programmatic handling
	// example: NOT_QUEUED
	Code string `json:"code"`

	// Human-readable error message
	// example: player name not in queue
	Message string `json:"message"`

	// Additional details (optional)
	Details string `json:"details,omitempty"`
}

func Success(content any) Envelope {
	return Envelope{Status: StatusSuccess, Content: content}
}

// Player is a queue entry as the API exposes it
type Player struct {
	// Position in the queue, 1 is served next
	// example: 1
	Position int `json:"position"`

	// example: alice
	Name string `json:"name"`

	// Cabinet the player is waiting for
	// example: 3f0c1d2e-5b8a-4c1e-9f7a-2d6b8e4a1c00
	AssocCabinet string `json:"assoc_cabinet"`

	// When the player joined, kept across postpones
	// example: 2026-10-16T18:04:05Z
	JoinedAt time.Time `json:"joined_at"`
}

// PlayersResponse is the swagger shape of a list of players
type PlayersResponse struct {
	// example: success
	Status  string   `json:"status"`
	Content []Player `json:"content"`
}
