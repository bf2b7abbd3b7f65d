package domain

// Status answers a state/remaining query from an embedding front end.
// It is written directly to the requester and never published.
type Status struct {
	Type          string `json:"type"` // "status"
	SchemaVersion int    `json:"schemaVersion"`
	State         State  `json:"state"`
	Session       int    `json:"session,omitempty"`
	SessionID     string `json:"session_id,omitempty"`
	RemainingTime int    `json:"remainingTime"`
	Paused        bool   `json:"paused"`
	IdleSeconds   int    `json:"idle_seconds,omitempty"`
	Totals        Totals `json:"totals"`
}
