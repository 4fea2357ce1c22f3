package strategy

import (
	"math"

	"ares_bot/internal/models"
)

const (
	DefaultTrendLookback  = 50
	DefaultTrendTolerance = 0.002
	minTouches            = 3
)

type TrendConfig struct {
	Lookback  int     // сколько последних пивотов учитывать
	Tolerance float64 // доля от цены пивота
}

func (c TrendConfig) withDefaults() TrendConfig {
	if c.Lookback <= 0 {
		c.Lookback = DefaultTrendLookback
	}
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultTrendTolerance
	}
	return c
}

// FitTrendLine перебирает все пары пивотов (i<j по хронологии), строит через них прямую
// и считает касания. Побеждает первая прямая со строго наибольшим числом касаний (>=3).
// Пары с одинаковым временем пропускаются. nil — линии нет.
func FitTrendLine(points []models.SwingPoint, mode models.PivotKind, cfg TrendConfig) *models.TrendLine {
	cfg = cfg.withDefaults()
	if len(points) > cfg.Lookback {
		points = points[len(points)-cfg.Lookback:]
	}
	if len(points) < minTouches {
		return nil
	}

	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Time.Unix())
	}

	var best *models.TrendLine
	maxTouches := 0
	for i := 0; i < len(points)-1; i++ {
		for j := i + 1; j < len(points); j++ {
			dx := xs[j] - xs[i]
			if dx == 0 {
				continue
			}
			m := (points[j].Price - points[i].Price) / dx
			c := points[i].Price - m*xs[i]

			touches := countTouches(points, xs, m, c, cfg.Tolerance)
			if touches >= minTouches && touches > maxTouches {
				maxTouches = touches
				best = &models.TrendLine{Slope: m, Intercept: c, TouchCount: touches, Mode: mode}
			}
		}
	}
	return best
}

// Касание — отклонение строго меньше tol*price.
func countTouches(points []models.SwingPoint, xs []float64, m, c, tol float64) int {
	n := 0
	for k, p := range points {
		if math.Abs(p.Price-(m*xs[k]+c)) < p.Price*tol {
			n++
		}
	}
	return n
}
