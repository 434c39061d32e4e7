package models

// Category is the coarse label assigned by the keyword classifier.
type Category string

const (
	CategoryTheft       Category = "Theft"
	CategoryPublicNoise Category = "PublicNoise"
	CategoryCrime       Category = "Crime"
)

// Source names the outlet an article came from.
type Source struct {
	Name string `json:"name"`
}

// Article is a provider article normalized to the shape the dashboard and report consume.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      Source `json:"source"`
	PublishedAt string `json:"publishedAt"`
	URL         string `json:"url"`
}

// ClassifiedArticle is an Article that matched a policing keyword.
type ClassifiedArticle struct {
	Article
	Category        Category  `json:"category"`
	District        string    `json:"district"`
	RelatedArticles []Article `json:"related_articles"`
}

// Digest is the /fetch_news payload.
type Digest struct {
	Articles []ClassifiedArticle `json:"articles"`
	IsMock   bool                `json:"is_mock"`
}
