package commanddata

type OrderData struct {
	descending bool
	fields     []string
}

func NewOrderData(descending bool, fields []string) *OrderData {
	return &OrderData{descending: descending, fields: fields}
}

func (o *OrderData) Descending() bool {
	return o.descending
}

func (o *OrderData) Fields() []string {
	return o.fields
}
