// Package oi provides open-interest anomaly and trend analytics.
package oi

import (
	"math"

	"github.com/quantx/pulse/internal/core"
)

// SpikeScore returns the z-score of the latest period-over-period OI change
// against the change series' own mean and deviation. Fewer than two points
// or zero variance yields 0.
func SpikeScore(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	changes := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		changes[i-1] = series[i] - series[i-1]
	}
	mean, std := meanStd(changes)
	if std == 0 {
		return 0
	}
	return (changes[len(changes)-1] - mean) / std
}

// VolumeOIRatio returns volume divided by open interest, 0 when OI is not
// positive.
func VolumeOIRatio(volume, openInterest float64) float64 {
	if openInterest <= 0 {
		return 0
	}
	return volume / openInterest
}

// TrendClassifier classifies the OI series by the sign of its least-squares
// slope over the full series.
func TrendClassifier(series []float64) core.OITrend {
	if len(series) < 2 {
		return core.OIFlat
	}
	slope := leastSquaresSlope(series)
	switch {
	case slope > 0:
		return core.OIRising
	case slope < 0:
		return core.OIFalling
	default:
		return core.OIFlat
	}
}

// AnomalyScore returns the absolute z-score of the latest OI level against
// the series mean and deviation. Empty series yields 0.
func AnomalyScore(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	mean, std := meanStd(series)
	z := (series[len(series)-1] - mean) / (std + 1e-8)
	return math.Abs(z)
}

// PCR returns put interest over call interest. The second return is false
// when the call side is not positive.
func PCR(putOI, callOI float64) (float64, bool) {
	if callOI <= 0 {
		return 0, false
	}
	return putOI / callOI, true
}

// Metrics assembles the OI analytics over an OI and volume series plus the
// aggregate put/call interest.
func Metrics(oiSeries, volumeSeries []float64, putOI, callOI, putVolume, callVolume float64) core.OIMetrics {
	var lastVolume, lastOI float64
	if len(volumeSeries) > 0 {
		lastVolume = volumeSeries[len(volumeSeries)-1]
	}
	if len(oiSeries) > 0 {
		lastOI = oiSeries[len(oiSeries)-1]
	}

	m := core.OIMetrics{
		SpikeScore:    SpikeScore(oiSeries),
		VolumeOIRatio: VolumeOIRatio(lastVolume, lastOI),
		Trend:         TrendClassifier(oiSeries),
		AnomalyScore:  AnomalyScore(oiSeries),
	}
	if ratio, ok := PCR(putOI, callOI); ok {
		m.PCROI = &ratio
	}
	if ratio, ok := PCR(putVolume, callVolume); ok {
		m.PCRVolume = &ratio
	}
	return m
}

func meanStd(xs []float64) (float64, float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var variance float64
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	// Population deviation, matching the z-score convention used across
	// the analytics.
	return mean, math.Sqrt(variance / float64(len(xs)))
}

func leastSquaresSlope(ys []float64) float64 {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
