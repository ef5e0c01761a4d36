package model

type License struct {
	ID        int      `json:"id"`
	Instance  Instance `json:"instance"`
	Default   bool     `json:"default"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Content   string   `json:"content"`
	Agreement string   `json:"agreement"`
	IconHref  string   `json:"iconHref"`
}
