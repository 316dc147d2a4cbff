package domain

// SubmitResult is the Submission Router's response. TapsEarned is the fixed
// reward the caller uses for gamification feedback; it belongs to the response,
// not to the draft.
type SubmitResult struct {
	Success    bool   `json:"success"`
	FinalID    string `json:"final_id,omitempty"`
	FinalTable string `json:"final_table,omitempty"`
	TapsEarned int    `json:"taps_earned,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SubmitFailure builds a structured failure result
func SubmitFailure(reason string) SubmitResult {
	return SubmitResult{Success: false, Error: reason}
}
