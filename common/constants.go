package common

var Version = "v0.3.0" // this hard coding will be replaced automatically when building, no need to manually change

var StartTime int64

const (
	OrderStatusCreate  = 1
	OrderStatusPending = 2
	OrderStatusSuccess = 3
	OrderStatusFail    = 4
	OrderStatusRefund  = 5
)
