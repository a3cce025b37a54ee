package strategy

// Context is the flat indicator mapping a strategy evaluates against.
// Unknown indicator names resolve to 0.0 - strategies never fail on a
// missing key.
type Context map[string]float64

// Get returns the indicator value, defaulting to 0.0 for unknown names.
func (c Context) Get(name string) float64 {
	return c[name]
}

// Price returns the context's current price.
func (c Context) Price() float64 {
	return c.Get("price")
}

// Volume returns the context's current volume.
func (c Context) Volume() float64 {
	return c.Get("volume")
}
