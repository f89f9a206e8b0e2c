package controllers

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrTableUnavailable  = &CustomError{"Table is not available"}
	ErrOrderNotLive      = &CustomError{"Order is not accepting requests"}
	ErrIllegalTransition = &CustomError{"Order status transition not allowed"}
)
