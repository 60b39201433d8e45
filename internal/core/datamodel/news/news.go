package news

type Article struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
	Image   string `json:"image"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}
