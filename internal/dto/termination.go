package dto

// RequestTerminationRequest payload for asking to retire an internship early.
type RequestTerminationRequest struct {
	Reason string `json:"reason"`
}

// ProcessTerminationRequest captures the reviewer verdict on a termination.
type ProcessTerminationRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}
