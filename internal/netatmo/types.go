package netatmo

// Device describes one measuring unit as listed by the stations endpoint.
// Stations and their satellite modules share this shape; a module can only
// be queried together with its owning station's id.
type Device struct {
	ID        string   `json:"_id"`
	Name      string   `json:"module_name"`
	DataTypes []string `json:"data_type"`
}

// Station is a base unit. Its own sensor metadata lives inline in the same
// record that carries the nested module list.
type Station struct {
	Device

	StationName string   `json:"station_name"`
	Modules     []Device `json:"modules"`
}

// Point is one timestamped measurement. Values holds the value list exactly
// as packed by the API; entries may be nil.
type Point struct {
	Time   int64
	Values []*float64
}
