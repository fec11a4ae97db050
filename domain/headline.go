package domain

type HeadlineInput struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type HeadlineResult struct {
	Headlines []string `json:"headlines"`
	Source    string   `json:"source"`
}
