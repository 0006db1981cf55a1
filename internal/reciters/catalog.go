package reciters

// Reciter maps a recitation host directory name to a display name. The ID is
// used verbatim in audio URLs and cache keys.
type Reciter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// catalog is the static set of supported reciters. IDs follow the
// everyayah.com directory layout.
var catalog = []Reciter{
	{ID: "Alafasy_128kbps", Name: "Mishary Rashid Alafasy"},
	{ID: "Abdul_Basit_Murattal_192kbps", Name: "Abdul Basit (Murattal)"},
	{ID: "Husary_128kbps", Name: "Mahmoud Khalil Al-Husary"},
	{ID: "Minshawy_Murattal_128kbps", Name: "Mohamed Siddiq El-Minshawi (Murattal)"},
	{ID: "Abdurrahmaan_As-Sudais_192kbps", Name: "Abdurrahmaan As-Sudais"},
	{ID: "Saood_ash-Shuraym_128kbps", Name: "Saood Ash-Shuraym"},
	{ID: "Ghamadi_40kbps", Name: "Saad Al-Ghamdi"},
}

// All returns the full catalog in display order.
func All() []Reciter {
	out := make([]Reciter, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a reciter by ID.
func Lookup(id string) (Reciter, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Reciter{}, false
}
