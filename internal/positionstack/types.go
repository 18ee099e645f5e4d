package positionstack

type ForwardResponse struct {
	Data []*Result `json:"data"`
}

type Result struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
