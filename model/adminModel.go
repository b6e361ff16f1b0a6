package model

type Admin struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	PasswordHash string `json:"-"`
}

// LoginReq represents admin login payload
// swagger:model LoginReq
type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
