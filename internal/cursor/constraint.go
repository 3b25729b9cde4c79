package cursor

import "image"

// Constraint is a pointer confinement or lock region attached to a view
// (spec §4.5 pointer constraints): a confine constraint clamps the pointer
// inside Region; a locked one pins it to Region's centre.
type Constraint struct {
	Region image.Rectangle
	Locked bool
}

// Clamp applies the constraint to a proposed absolute position, per spec
// §4.5: a locked constraint always returns the centre of the region; a
// confined one clamps the position to the region.
func (c *Constraint) Clamp(x, y float64) (float64, float64) {
	if c == nil {
		return x, y
	}
	if c.Locked {
		mid := c.Region.Min.Add(c.Region.Max).Div(2)
		return float64(mid.X), float64(mid.Y)
	}
	if x < float64(c.Region.Min.X) {
		x = float64(c.Region.Min.X)
	}
	if x > float64(c.Region.Max.X) {
		x = float64(c.Region.Max.X)
	}
	if y < float64(c.Region.Min.Y) {
		y = float64(c.Region.Min.Y)
	}
	if y > float64(c.Region.Max.Y) {
		y = float64(c.Region.Max.Y)
	}
	return x, y
}
