package damage

import (
	"strings"

	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/ledger"
)

// Region is a body area of the vehicle.
type Region string

const (
	Front  Region = "front"
	Rear   Region = "rear"
	Left   Region = "left"
	Right  Region = "right"
	Top    Region = "top"
	Bottom Region = "bottom"
)

// Regions lists every region in painting priority order.
var Regions = []Region{Front, Rear, Left, Right, Bottom, Top}

// Severity grades the damage found in a region.
type Severity string

const (
	None   Severity = ""
	Light  Severity = "light"
	Medium Severity = "medium"
	Heavy  Severity = "heavy"
)

// Assessment maps damaged regions to their severity. Regions without damage are absent.
type Assessment map[Region]Severity

// Merge copies every region of other into a, overwriting existing entries.
func (a Assessment) Merge(other Assessment) {
	for region, severity := range other {
		a[region] = severity
	}
}

type rule struct {
	keywords []string
	region   Region
	severity Severity
}

// Keywords are matched against the lower-cased description. Turkish phrases
// come from the service shops the ledger was first used with.
var rules = []rule{
	{[]string{"ön tampon", "ön çamurluk", "front bumper", "front fender"}, Front, Heavy},
	{[]string{"arka far", "arka tampon", "rear light", "tail light", "rear bumper"}, Rear, Medium},
	{[]string{"kapı çizik", "sol kapı", "door scratch", "left door"}, Left, Light},
	{[]string{"sağ kapı", "sağ çamurluk", "right door", "right fender"}, Right, Light},
	{[]string{"tavan", "cam", "roof", "glass", "windshield"}, Top, Medium},
	{[]string{"alt", "şasi", "underbody", "chassis"}, Bottom, Heavy},
}

// Classify derives per-region damage from a free-text maintenance description.
func Classify(description string) Assessment {
	text := strings.ToLower(description)
	result := Assessment{}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				result[r.region] = r.severity
				break
			}
		}
	}
	return result
}

// AssessChain classifies every record block in order, later blocks
// overwriting earlier findings for the same region. An empty vehicleID
// includes all vehicles.
func AssessChain(blocks []ledger.Block, vehicleID string) Assessment {
	result := Assessment{}
	for _, b := range blocks {
		record, ok := b.Record()
		if !ok {
			continue
		}
		if vehicleID != "" && record.VehicleID() != vehicleID {
			continue
		}
		result.Merge(Classify(record.Description()))
	}
	return result
}
