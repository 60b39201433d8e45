package news

type CreateArticleDTO struct {
	Title   string `json:"title" validate:"required,max=200"`
	Excerpt string `json:"excerpt" validate:"max=500"`
	Content string `json:"content" validate:"required"`
	Image   string `json:"image" validate:"omitempty,url"`
	Author  string `json:"author" validate:"max=100"`
	Date    string `json:"date" validate:"omitempty,isodate"`
}
