package types

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ForecastResponse struct {
	Location Location      `json:"location"`
	Days     []ForecastDay `json:"days"`
	// Sample is set when the days were synthesized instead of fetched.
	Sample bool `json:"sample"`
}

type Location struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
}

type ForecastDay struct {
	Timestamp  int64       `json:"dt"`
	Temp       Temperature `json:"temp"`
	FeelsLike  FeelsLike   `json:"feels_like"`
	Pressure   float64     `json:"pressure"`
	Humidity   float64     `json:"humidity"`
	Clouds     float64     `json:"clouds"`
	Pop        float64     `json:"pop"`
	WindSpeed  float64     `json:"speed"`
	WindDeg    float64     `json:"deg"`
	WindGust   float64     `json:"gust"`
	Rain       *float64    `json:"rain,omitempty"`
	Conditions Conditions  `json:"conditions"`
}

type Temperature struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

type FeelsLike struct {
	Day   float64 `json:"day"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

type Conditions struct {
	Id          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Restaurant struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Address      string      `json:"address"`
	Coordinates  Coordinates `json:"coordinates"`
	Rating       *float64    `json:"rating,omitempty"`
	RatingsTotal *int        `json:"ratings_total,omitempty"`
	PriceLevel   *int        `json:"price_level,omitempty"`
	OpenNow      *bool       `json:"open_now,omitempty"`
	Types        []string    `json:"types,omitempty"`
}
