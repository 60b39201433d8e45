package application

// Application is a citizen or staff request. CreatedAt is an RFC 3339
// timestamp; snapshots imported from older tools may carry "2006-01-02 15:04:05".
type Application struct {
	ID          int64      `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	AuthorLogin string     `json:"author_login"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Department  string     `json:"department"`
	Description string     `json:"description"`
	CreatedAt   string     `json:"createdAt"`
	Responses   []Response `json:"responses"`
	IsPinned    bool       `json:"isPinned,omitempty"`
}

type Response struct {
	ID         int64  `json:"id"`
	Author     string `json:"author"`
	Text       string `json:"text"`
	CreatedAt  string `json:"createdAt"`
	IsOfficial bool   `json:"is_official"`
	Action     string `json:"action,omitempty"`
}
