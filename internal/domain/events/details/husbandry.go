package details

// Detalles de manejo: los registra el dueño del bovino.

type Weight struct {
	EventID string `json:"-"`

	PreviousWeight *float64 `json:"previous_weight"` // peso_actual antes del evento
	NewWeight      float64  `json:"new_weight"`
}

type Diet struct {
	EventID string `json:"-"`

	Feed string `json:"feed"`
}

// Sale registra la intención de compraventa (CURP de comprador y vendedor).
type Sale struct {
	EventID string `json:"-"`

	BuyerID  string `json:"buyer_id"`
	SellerID string `json:"seller_id"`
}

type Transfer struct {
	EventID string `json:"-"`

	PreviousParcelID *string `json:"previous_parcel_id"`
	NewParcelID      string  `json:"new_parcel_id"`
}
