package model

// Error is the JSON error body returned to callers.
type Error struct {
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"-"`
}

type ErrorWithStatusCode struct {
	Error
	StatusCode int `json:"-"`
}

func (e *ErrorWithStatusCode) String() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}
