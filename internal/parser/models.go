package parser

// RawTable is a results file as read from disk: a header row and the data
// rows as strings, before any column checks.
type RawTable struct {
	Path    string
	Header  []string
	Records [][]string
}

// Row is one BER measurement.
type Row struct {
	Modulation string
	X          float64 // SNR_dB or NoiseVariance, depending on the variant
	BER        float64
	Floored    bool // BER was exactly zero and has been replaced by the display floor
}

// ResultsTable is the typed, validated table. It is not modified once
// loaded; normalization returns a copy.
type ResultsTable struct {
	Path    string
	XColumn string
	Rows    []Row
}

// Clone returns a deep copy of the table.
func (t *ResultsTable) Clone() *ResultsTable {
	c := *t
	c.Rows = append([]Row(nil), t.Rows...)
	return &c
}
