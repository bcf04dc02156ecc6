package datastructure

// ForecastWindow summed rainfall over HorizonDays around a region.
// Available is false when the provider could not be reached.
type ForecastWindow struct {
	RegionKey   string
	RainfallMm  float64
	HorizonDays int
	Available   bool
}

func UnavailableForecast(regionKey string, horizonDays int) ForecastWindow {
	return ForecastWindow{
		RegionKey:   regionKey,
		HorizonDays: horizonDays,
		Available:   false,
	}
}
