package kodak

// Instrument is the reference data for a tradable security. It is maintained
// by an external reference-data sync and read-only to the engine.
type Instrument struct {
	ISIN       string `json:"isin"`
	Symbol     string `json:"symbol"` // quote symbol, e.g. "AAPL" or "2318.HK"
	Currency   string `json:"currency"`
	Sector     string `json:"sector,omitempty"`
	Region     string `json:"region,omitempty"`
	AssetClass string `json:"asset_class,omitempty"`
}

// Label returns the best human identifier for the instrument: the symbol when
// mapped, otherwise the ISIN.
func (i Instrument) Label() string {
	if i.Symbol != "" {
		return i.Symbol
	}
	return i.ISIN
}
