package entity

// TableSelection is the table identity pair written by the QR-scan flow.
// ID goes to the backend, Number is what the guest sees on the receipt.
type TableSelection struct {
	ID     string `json:"tableId"`
	Number string `json:"tableNumber"`
}
