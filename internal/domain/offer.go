package domain

// TradingOffer is an open offer on a trading board. The offered items are
// escrowed out of the poster's live inventory at post time, so an offer on
// the board is always backed by real goods. Offers are never edited in
// place; cancel-then-repost is the only edit.
type TradingOffer struct {
	OfferID     string    `json:"offer_id"`
	PlayerID    string    `json:"player_id"`
	ItemOffered ItemStack `json:"item_offered"`
	ItemDesired ItemStack `json:"item_desired"`
	PostedAt    int64     `json:"posted_at"`
}
