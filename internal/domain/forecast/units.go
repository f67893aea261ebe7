package forecast

// KnotsPerMeterPerSecond is the exact conversion factor between the m/s
// speeds Open-Meteo reports and the knots kitesurfers think in.
const KnotsPerMeterPerSecond = 1.94384449

// MPSToKnots converts a wind speed from meters per second to knots.
func MPSToKnots(speedMS float64) float64 {
	return speedMS * KnotsPerMeterPerSecond
}
