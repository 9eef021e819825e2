package shef

// Built-in SHEF 2.2 registry defaults. This is a representative subset of
// the full NWS SHEFPARM table — enough PE/duration/type-source/extremum/
// probability/qualifier codes to decode the scenarios of spec §8 and the
// common hydromet parameters — not a verbatim transcription of the full
// manual appendix. A host needing the complete table supplies it via
// --shefparm.
var defaultPEEntries = []PEEntry{
	{Code: "HG", BaseUnit: "FT", EnglishFactor: 1.0, MetricFactor: 0.3048, DefaultDuration: 'I'},
	{Code: "HT", BaseUnit: "FT", EnglishFactor: 1.0, MetricFactor: 0.3048, DefaultDuration: 'I'},
	{Code: "HP", BaseUnit: "FT", EnglishFactor: 1.0, MetricFactor: 0.3048, DefaultDuration: 'I'},
	{Code: "PC", BaseUnit: "IN", EnglishFactor: 1.0, MetricFactor: 25.4, DefaultDuration: 'I'},
	{Code: "PP", BaseUnit: "IN", EnglishFactor: 1.0, MetricFactor: 25.4, DefaultDuration: 'Q'},
	{Code: "TA", BaseUnit: "F", EnglishFactor: 1.0, MetricFactor: 1.0, DefaultDuration: 'I'},
	{Code: "TW", BaseUnit: "F", EnglishFactor: 1.0, MetricFactor: 1.0, DefaultDuration: 'I'},
	{Code: "TD", BaseUnit: "F", EnglishFactor: 1.0, MetricFactor: 1.0, DefaultDuration: 'I'},
	{Code: "QR", BaseUnit: "CFS", EnglishFactor: 1.0, MetricFactor: 0.0283168, DefaultDuration: 'I'},
	{Code: "QT", BaseUnit: "CFS", EnglishFactor: 1.0, MetricFactor: 0.0283168, DefaultDuration: 'I'},
	{Code: "SD", BaseUnit: "IN", EnglishFactor: 1.0, MetricFactor: 25.4, DefaultDuration: 'I'},
	{Code: "SW", BaseUnit: "IN", EnglishFactor: 1.0, MetricFactor: 25.4, DefaultDuration: 'I'},
	{Code: "UD", BaseUnit: "DEG", EnglishFactor: 1.0, MetricFactor: 1.0, DefaultDuration: 'I'},
	{Code: "US", BaseUnit: "MPH", EnglishFactor: 1.0, MetricFactor: 0.44704, DefaultDuration: 'I'},
	{Code: "XG", BaseUnit: "CODE", EnglishFactor: 1.0, MetricFactor: 1.0, DefaultDuration: 'I'},
	{Code: "VB", BaseUnit: "VOLT", EnglishFactor: 1.0, MetricFactor: 1.0, DefaultDuration: 'I'},
	{Code: "MS", BaseUnit: "FT", EnglishFactor: 1.0, MetricFactor: 0.3048, DefaultDuration: 'I'},
	{Code: "PA", BaseUnit: "IN-HG", EnglishFactor: 1.0, MetricFactor: 25.4, DefaultDuration: 'I'},
	{Code: "RW", BaseUnit: "WATT/M2", EnglishFactor: 1.0, MetricFactor: 1.0, DefaultDuration: 'I'},
	{Code: "XR", BaseUnit: "PCT", EnglishFactor: 1.0, MetricFactor: 1.0, DefaultDuration: 'I'},
}

// defaultDurations maps a SHEF duration letter to minutes. -1 marks
// variable/unknown duration per DurationVariable.
var defaultDurations = map[byte]int{
	'I': 0,     // instantaneous
	'U': 1,     // 1 minute
	'E': 5,     // 5 minutes
	'G': 10,    // 10 minutes
	'C': 15,    // 15 minutes
	'J': 30,    // 30 minutes
	'H': 60,    // 1 hour
	'B': 120,   // 2 hours
	'T': 180,   // 3 hours
	'F': 240,   // 4 hours
	'Q': 360,   // 6 hours
	'A': 720,   // 12 hours
	'D': 1440,  // 1 day
	'W': 10080, // 1 week
	'M': 43200, // 1 month (30 days, registry approximation)
	'Y': 525600,
	'Z': 0, // default/unspecified duration; the decoder does not consult this entry
	'V': DurationVariable,
	'N': DurationVariable,
}

var defaultTypeSources = []string{
	"RZ", "RG", "RP", "RM", "PZ", "PR", "PP", "FZ", "FF", "FP", "CZ", "CP",
	"MZ", "MW", "XZ", "AW", "AR", "AD", "IR",
}

var defaultExtrema = []byte{'Z', 'N', 'X', '1', '2', '3', '4', '5', '6', '7'}

// defaultProbability maps a probability-bucket letter to its numeric
// exceedance value, per NWS SHEFPARM "Probability Codes" table.
var defaultProbability = map[byte]float64{
	'Z': 0, // not applicable
	'A': 0.002, 'B': 0.004, 'C': 0.01, 'D': 0.02, 'E': 0.04, 'F': 0.05,
	'G': 0.1, 'H': 0.15, 'I': 0.2, 'J': 0.25, 'K': 0.3, 'L': 0.333,
	'M': 0.4, 'N': 0.429, 'O': 0.444, 'P': 0.45, 'Q': 0.5, 'R': 0.6,
	'S': 0.667, 'T': 0.7, 'U': 0.75, 'V': 0.8, 'W': 0.9, 'X': 0.95,
	'Y': 0.96, '1': -0.95, '2': -0.9, '3': -0.5, '5': 0.05,
}

var defaultQualifiers = map[byte]bool{
	'Z': true, // default, no qualification
	'G': true, // good
	'E': true, // edited
	'V': true, // verified
	'S': true, // screened
	'F': true, // failed
	'Q': true, // questionable
	'M': true, // missing but provided
	'N': true, // set by SHEF encoder
	'R': true, // rejected
}
