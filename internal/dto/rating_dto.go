package dto

// SubmitRatingsRequest maps ratee user id (string uuid) to a score in
// [1,5]. The whole batch is rejected if any entry is out of range.
type SubmitRatingsRequest struct {
	Ratings map[string]int `json:"ratings"`
}

type RatingsResponse struct {
	Ratings map[string]int `json:"ratings"` // ratee id -> score
}
