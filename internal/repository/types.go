package repository

import "time"

// OrderListFilter filters the admin order list.
type OrderListFilter struct {
	Page            int
	PageSize        int
	UserID          uint
	Status          string
	PaymentStatusID int
	OrderNo         string
	Phone           string
	City            string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
