package purchase

// DepositInput represents a single coin inserted by a buyer.
type DepositInput struct {
	Coin int64 `json:"coin" validate:"required"`
}

// BuyInput represents the request body for a purchase.
type BuyInput struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int64  `json:"quantity"   validate:"required,gt=0"`
}
