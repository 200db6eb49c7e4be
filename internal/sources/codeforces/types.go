package codeforces

// listResponse is the envelope returned by /contest.list.
type listResponse struct {
	Status  string    `json:"status"`
	Comment string    `json:"comment"`
	Result  []Contest `json:"result"`
}

// Contest is the source-native codeforces contest record.
type Contest struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Phase            string `json:"phase"`
	StartTimeSeconds int64  `json:"startTimeSeconds"`
	DurationSeconds  int64  `json:"durationSeconds"`
}
