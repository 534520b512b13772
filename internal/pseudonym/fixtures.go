package pseudonym

// Fixture vocabularies used by the shape-preserving generators. Lists
// are intentionally small and entirely fictional; picks are filtered
// by approximate length (±2 characters) against the original token
// before a deterministic choice is made from the stream, per
// spec.md §4.6's "comparable length" rule.

var firstNamesMale = []string{
	"Alan", "Brian", "Carl", "Dean", "Evan", "Frank", "Glen", "Hugh",
	"Ivan", "Jack", "Keith", "Leo", "Marcus", "Noel", "Owen", "Paul",
	"Quinn", "Ralph", "Simon", "Todd", "Victor", "Wade", "Xavier", "Yuri",
}

var firstNamesFemale = []string{
	"Alice", "Brenda", "Carla", "Diana", "Erin", "Faye", "Grace", "Hazel",
	"Irene", "Jane", "Karen", "Leah", "Maria", "Nora", "Olive", "Paula",
	"Quinn", "Rita", "Sara", "Tina", "Uma", "Vera", "Wendy", "Zoe",
}

var lastNames = []string{
	"Smith", "Jones", "Brown", "Taylor", "Wilson", "Clark", "Baker",
	"Carter", "Mitchell", "Parker", "Reed", "Sanders", "Turner", "Walsh",
	"Fischer", "Becker", "Keller", "Brandt", "Weiss", "Holt", "Morgan",
	"Hughes", "Foster", "Grant", "Sullivan", "Barrett", "Douglas", "Cross",
}

// orgRoots are plausible made-up business-name roots (not legal
// suffixes, which are preserved verbatim from the original).
var orgRoots = []string{
	"Meridian", "Harborview", "Brightstone", "Northfield", "Cobalt",
	"Summit", "Lakeside", "Ironwood", "Pinecrest", "Silverline",
	"Vantage", "Redwood", "Fieldstone", "Crestmark", "Amberwood",
}

// bankRoots are made-up bank-name roots; "Bank" and designators like
// "N.A." are preserved by the caller, not substituted from this list.
var bankRoots = []string{
	"Meridian", "Cornerstone", "Harborside", "Summit", "Northgate",
	"Fieldcrest", "Lakeshore", "Union Heights", "Brightwater", "Ashford",
}

// streetNames are used in place of the original street name; the
// house number, directional, and suffix are generated/preserved
// separately.
var streetNames = []string{
	"Maple", "Oak", "Cedar", "Birch", "Willow", "Elm", "Hickory",
	"Sycamore", "Aspen", "Magnolia", "Chestnut", "Juniper", "Laurel",
	"Spruce", "Linden", "Poplar",
}

// cityNames substitute for place-name tokens in LOCATION mentions; state
// abbreviations (kept) and ZIP-like digit runs (regenerated) are handled
// separately by generateLocation rather than drawn from this list.
var cityNames = []string{
	"Ashford", "Brookhaven", "Cedarville", "Dunmore", "Eastport",
	"Fairhaven", "Glenridge", "Hartwell", "Ironbridge", "Jasperton",
	"Kingsford", "Lynwood", "Millbrook", "Norwich Falls", "Oakmere",
	"Pinehurst", "Ridgemont", "Stonegate", "Thornfield", "Westbrook",
}

// emailDomains are the only domains a generated EMAIL pseudonym may use
// (spec.md §4.7 Safety Guard).
var emailDomains = []string{"example.org", "example.com", "example.net"}

// emailLocalChars mirrors the character classes a realistic email local
// part draws from.
const emailLocalChars = "abcdefghijklmnopqrstuvwxyz0123456789."
