package borrowing

type BorrowReq struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	HandledBy string `json:"handledBy" validate:"required"`
}
