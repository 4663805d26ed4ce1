package venue

// DefaultMinRating is the rating a venue needs to be paired.
const DefaultMinRating = 4.0

// Qualify keeps venues whose rating is present and at least minRating.
// Unrated venues are dropped. Order is preserved.
func Qualify(venues []Venue, minRating float64) []Venue {
	out := make([]Venue, 0, len(venues))
	for _, v := range venues {
		if r, ok := v.Rating(); ok && r >= minRating {
			out = append(out, v)
		}
	}
	return out
}
