package commanddata

// GetData loads a record by primary key.
type GetData struct {
	recID int
}

func NewGetData(recID int) *GetData {
	return &GetData{recID: recID}
}

func (g *GetData) RecID() int {
	return g.recID
}

// GotoData moves the cursor to a buffer slot.
type GotoData struct {
	index int
}

func NewGotoData(index int) *GotoData {
	return &GotoData{index: index}
}

func (g *GotoData) Index() int {
	return g.index
}
