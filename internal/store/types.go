package store

// Run describes one pass of the event loop.
type Run struct {
	ID         string `json:"id"`
	Seq        int64  `json:"seq"`
	Dataset    string `json:"dataset"`
	Simulation bool   `json:"simulation"`
	ConfigHash string `json:"config_hash"`

	// Options is the canonical JSON of the analysis options.
	Options string `json:"options"`
	Syst    string `json:"syst"`

	EventsRead     int64 `json:"events_read"`
	EventsSelected int64 `json:"events_selected"`
	Completed      bool  `json:"completed"`
}

// Variation is one row of a run's flattened variation table.
type Variation struct {
	Index     int    `json:"index"`
	Component string `json:"component"`
	Local     int    `json:"local"`
	Name      string `json:"name"`
}

// Event is a selected record and its weights.
type Event struct {
	Position      uint64  `json:"position"`
	Run           uint32  `json:"run"`
	Lumi          uint32  `json:"lumi"`
	EventID       uint64  `json:"event_id"`
	NominalWeight float64 `json:"nominal_weight"`
	DefaultWeight float64 `json:"default_weight"`

	// RelWeights holds RelWeight(i) for every global variation index i.
	// Only filled by ReadEvents when requested.
	RelWeights []float64 `json:"rel_weights,omitempty"`
}
