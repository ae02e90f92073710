package template

import "strings"

// PageSize is a named page extent in points (1/72 inch), portrait.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

// Standard page sizes.
var (
	A3     = PageSize{"A3", 842, 1191}
	A4     = PageSize{"A4", 595, 842}
	A5     = PageSize{"A5", 420, 595}
	Letter = PageSize{"Letter", 612, 792}
	Legal  = PageSize{"Legal", 612, 1008}
)

// PageSizes lists the standard sizes.
var PageSizes = []PageSize{A3, A4, A5, Letter, Legal}

// LookupPageSize finds a standard size by name, ignoring case.
func LookupPageSize(name string) (PageSize, bool) {
	for _, p := range PageSizes {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return PageSize{}, false
}

// Oriented returns the page extent for the given orientation.
func (p PageSize) Oriented(o Orientation) (w, h float64) {
	if o == Landscape {
		return p.Height, p.Width
	}
	return p.Width, p.Height
}

// Orientation is the page orientation.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Margins are the page margins in points.
type Margins struct {
	Top    float64 `json:"top" bson:"top"`
	Right  float64 `json:"right" bson:"right"`
	Bottom float64 `json:"bottom" bson:"bottom"`
	Left   float64 `json:"left" bson:"left"`
}

// UniformMargins returns margins of v on every side.
func UniformMargins(v float64) Margins {
	return Margins{v, v, v, v}
}
