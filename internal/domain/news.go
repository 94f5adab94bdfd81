package domain

// NewsArticle is a single news item.
type NewsArticle struct {
	Headline      string `json:"headline"`
	Summary       string `json:"summary"`
	Source        string `json:"source"`
	URL           string `json:"url"`
	Image         string `json:"image,omitempty"`
	Datetime      int64  `json:"datetime"`
	PrimarySymbol string `json:"primary_symbol,omitempty"`
	Related       string `json:"related,omitempty"`
	Sentiment     string `json:"sentiment,omitempty"`
}
