package jobs

// UserWelcomePayload carries just enough for the worker to greet the user.
// Kept minimal and ID-based; no password material ever crosses the queue.
type UserWelcomePayload struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	RequestID string `json:"requestId,omitempty"` // correlation
}

// PostPublishedPayload announces a post that just went live.
type PostPublishedPayload struct {
	PostID    string `json:"postId"`
	Title     string `json:"title"`
	AuthorID  string `json:"authorId"`
	RequestID string `json:"requestId,omitempty"`
}
