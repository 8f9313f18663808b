package domain

// Article is a single headline extracted from the listing page.
type Article struct {
	Title string
	URL   string
}
