package entity

// CartItemOption เก็บราคา ณ เวลาที่เลือก ไม่คำนวณใหม่จาก catalog
type CartItemOption struct {
	OptionID    string  `json:"optionId"`
	OptionName  string  `json:"optionName"`
	PriceAtTime float64 `json:"priceAtTime"`
}

type CartItem struct {
	MenuItemID     string           `json:"menuItemId"`
	MenuItemName   string           `json:"menuItemName"`
	Price          float64          `json:"price"` // unit price snapshot at add-time
	Quantity       int              `json:"quantity"`
	SpecialRequest string           `json:"specialRequest,omitempty"`
	Options        []CartItemOption `json:"options"`
}

// LineTotal = quantity * (price + sum of option deltas)
func (it CartItem) LineTotal() float64 {
	unit := it.Price
	for _, op := range it.Options {
		unit += op.PriceAtTime
	}
	return unit * float64(it.Quantity)
}

// SameLine: เมนูเดียวกัน + options ชุดเดียวกัน (order-sensitive) ถึงจะรวม line ได้
func (it CartItem) SameLine(other CartItem) bool {
	if it.MenuItemID != other.MenuItemID {
		return false
	}
	if len(it.Options) != len(other.Options) {
		return false
	}
	for i := range it.Options {
		if it.Options[i] != other.Options[i] {
			return false
		}
	}
	return true
}
