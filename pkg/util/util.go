package util

import (
	"math"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// ReverseG reverses arr in place.
func ReverseG[T any](arr []T) []T {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
	return arr
}

// QuantizeDown and QuantizeUp snap val onto a grid of the given step, outward.
func QuantizeDown(val, step float64) float64 {
	return RoundFloat(math.Floor(val/step)*step, 6)
}

func QuantizeUp(val, step float64) float64 {
	return RoundFloat(math.Ceil(val/step)*step, 6)
}
