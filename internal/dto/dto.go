package dto

type CreatePaymentRequest struct {
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
	ProductID     *uint  `json:"product_id"`
}

type CreatePaymentResponse struct {
	Redirect      string `json:"redirect"`
	TransactionID string `json:"transactionId,omitempty"`
	Status        string `json:"status,omitempty"`
	DeliveryToken string `json:"delivery_token,omitempty"`
}

// WebhookPayload is what the gateway POSTs on transaction status changes.
type WebhookPayload struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type CheckReturnResponse struct {
	Status        string `json:"status"`
	Credited      bool   `json:"credited"`
	ProductID     *uint  `json:"product_id,omitempty"`
	DeliveryToken string `json:"delivery_token,omitempty"`
}

type DeliveryResponse struct {
	ProductID       uint   `json:"product_id"`
	ProductName     string `json:"product_name"`
	DeliveryContent string `json:"delivery_content"`
	ProductImage    string `json:"product_image,omitempty"`
	ProductPrice    string `json:"product_price,omitempty"`
	ProductCategory string `json:"product_category,omitempty"`
}

type BalanceResponse struct {
	Balance int64  `json:"balance"`
	Display string `json:"display"`
}

type PurchaseResponse struct {
	ID        string `json:"id"`
	ProductID uint   `json:"product_id"`
	Price     int64  `json:"price"`
	CreatedAt string `json:"created_at"`
}

type SettingsUpdateRequest struct {
	Settings map[string]string `json:"settings"`
}
