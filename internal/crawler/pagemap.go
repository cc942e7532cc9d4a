package crawler

// PageInfo describes the page the browser settled on
type PageInfo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	IsSPA bool   `json:"isSPA"`
	// Interactive is the number of visible controls seen when settling ended
	Interactive int `json:"interactive"`
}
