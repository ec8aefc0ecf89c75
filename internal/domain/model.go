package domain

// Area type labels included in every exported area model.
const (
	AreaTypeGroceryStore = "GroceryStoreArea"
	AreaTypeTrading      = "TradingArea"
)

// PurchaseRecord is one checkout in a player's purchase history.
type PurchaseRecord struct {
	Items       []GroceryItem `json:"items"`
	Total       int           `json:"total"`
	PurchasedAt int64         `json:"purchased_at"`
}

// BoundingBox is the area's footprint on the town map. The service never
// does collision or movement math with it; it is carried for clients.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GroceryStoreModel is the wire model broadcast to every occupant of a
// grocery store area after each successful mutation. Carts, balances and
// history are keyed by player id; clients filter to their own id.
type GroceryStoreModel struct {
	ID             string                      `json:"id"`
	Occupants      []string                    `json:"occupants"`
	Type           string                      `json:"type"`
	StoreInventory []GroceryItem               `json:"storeInventory"`
	Carts          map[string][]GroceryItem    `json:"carts"`
	Balances       map[string]int              `json:"balances"`
	History        map[string][]PurchaseRecord `json:"history"`
}

// TradingAreaModel is the wire model for a trading area. Board order is
// posting order.
type TradingAreaModel struct {
	ID           string         `json:"id"`
	Occupants    []string       `json:"occupants"`
	Type         string         `json:"type"`
	TradingBoard []TradingOffer `json:"tradingBoard"`
}
