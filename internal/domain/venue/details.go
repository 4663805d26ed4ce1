package venue

// UnknownLocation is the display name used when reverse geocoding finds a
// result with neither a locality nor a formatted address.
const UnknownLocation = "Unknown location"

// HoursUnavailable is shown when the provider has no opening hours for today.
const HoursUnavailable = "Hours not available"

// Info holds the contact fields fetched on demand for a selected venue.
type Info struct {
	Address    string
	Phone      string
	Website    string
	HoursToday string
}

// Details is a Venue enriched with contact information.
type Details struct {
	Venue
	info Info
}

// NewDetails attaches contact information to a venue.
func NewDetails(v Venue, info Info) Details {
	if info.HoursToday == "" {
		info.HoursToday = HoursUnavailable
	}
	return Details{Venue: v, info: info}
}

// Address returns the formatted address.
func (d Details) Address() string { return d.info.Address }

// Phone returns the formatted phone number.
func (d Details) Phone() string { return d.info.Phone }

// Website returns the venue website.
func (d Details) Website() string { return d.info.Website }

// HoursToday returns today's opening hours line.
func (d Details) HoursToday() string { return d.info.HoursToday }

// Info returns the contact fields.
func (d Details) Info() Info { return d.info }
