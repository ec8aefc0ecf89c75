package domain

// PlayerEconomicRecord is the durable per-player economic state. It is owned
// exclusively by the player database service; areas read and write it only
// through that service, never by holding a private copy.
type PlayerEconomicRecord struct {
	PlayerID  string    `json:"player_id"`
	Balance   int       `json:"balance"`
	Inventory Inventory `json:"inventory"`
}

// Clone returns a deep copy of the record.
func (r PlayerEconomicRecord) Clone() PlayerEconomicRecord {
	out := r
	out.Inventory = r.Inventory.Clone()
	return out
}
