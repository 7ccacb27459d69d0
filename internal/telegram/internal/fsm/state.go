package fsm

type ConversationStep int

const (
	StepIdle ConversationStep = iota
	StepAwaitingName
	StepAwaitingAddress
	StepAwaitingPhone
	StepAwaitingProduct
	StepAwaitingQty
	StepAwaitingNotes
	StepAwaitingPhoto
)

func (s ConversationStep) String() string {
	switch s {
	case StepIdle:
		return "IDLE"
	case StepAwaitingName:
		return "NAME"
	case StepAwaitingAddress:
		return "ADDRESS"
	case StepAwaitingPhone:
		return "PHONE"
	case StepAwaitingProduct:
		return "PRODUCT"
	case StepAwaitingQty:
		return "QTY"
	case StepAwaitingNotes:
		return "NOTES"
	case StepAwaitingPhoto:
		return "PHOTO"
	default:
		return "UNKNOWN"
	}
}

type StateData interface {
	StateData()
}

type IdleData struct{}

func (data *IdleData) StateData() {}

type OrderData struct {
	Name    string
	Address string
	Phone   string
	Product string
	Qty     string
	Notes   string
	Handle  string
}

func (data *OrderData) StateData() {}

type UploadData struct {
	Handle string
}

func (data *UploadData) StateData() {}
