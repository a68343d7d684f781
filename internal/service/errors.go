package service

import "errors"

var (
	ErrValidation = errors.New("validation")         // 400
	ErrNotFound   = errors.New("not found")          // 404
	ErrConflict   = errors.New("conflict")           // 409
	ErrNoOrders   = errors.New("no orders recorded") // 400, distinct from a zero total
)
