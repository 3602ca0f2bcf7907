package entity

type PageContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

func NewPageContent(title, content, url string) PageContent {
	return PageContent{
		Title:   title,
		Content: content,
		URL:     url,
	}
}
