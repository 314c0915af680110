package cmn

import "time"

// RecordLength is the fixed width, in bytes including the line terminator,
// of one normalized trip record. Every shard's byte size must be an exact
// multiple of RecordLength; a remainder means the shard is malformed.
const RecordLength = 80

// NumFields is the count of comma-separated fields in one record: the 8 data
// fields enumerated in the record schema plus one trailing padding field.
const NumFields = 9

// Colors is the closed set of valid shard colors.
var Colors = [...]string{"yellow", "green"}

func IsValidColor(c string) bool {
	for _, v := range Colors {
		if v == c {
			return true
		}
	}
	return false
}

// Epoch0 is the fixed epoch (D0) that pickup/dropoff second offsets in a
// record are measured from.
var Epoch0 = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateWindow is the inclusive [Min, Max] (year, month) range the ingest
// collaborator publishes as valid for one color; Coordinator rejects any
// task creation request outside of it.
type DateWindow struct {
	MinYear, MinMonth int
	MaxYear, MaxMonth int
}

// DateWindows is keyed by color. These are the published windows for the
// reference NYC TLC dataset this system was built against. Coordinator has
// no method to override them; this package-level map is the only source.
var DateWindows = map[string]DateWindow{
	"yellow": {MinYear: 2009, MinMonth: 1, MaxYear: 2016, MaxMonth: 12},
	"green":  {MinYear: 2013, MinMonth: 8, MaxYear: 2016, MaxMonth: 12},
}

func (w DateWindow) Contains(year, month int) bool {
	ym := year*100 + month
	return ym >= w.MinYear*100+w.MinMonth && ym <= w.MaxYear*100+w.MaxMonth
}

// Borough is the fixed NYC top-level region enumeration.
type Borough int

const (
	Manhattan Borough = iota + 1
	Bronx
	Brooklyn
	Queens
	StatenIsland
)

var boroughNames = map[Borough]string{
	Manhattan:    "Manhattan",
	Bronx:        "Bronx",
	Brooklyn:     "Brooklyn",
	Queens:       "Queens",
	StatenIsland: "Staten Island",
}

func (b Borough) String() string {
	if n, ok := boroughNames[b]; ok {
		return n
	}
	return "Unknown"
}

// BoroughOf derives the borough id from a district index: districts within
// one borough carry successive index values starting at borough_id*10000+1.
func BoroughOf(districtIndex int) Borough { return Borough(districtIndex / 10000) }
