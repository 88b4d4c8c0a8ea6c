package domain

import "errors"

var (
	ErrUnitNotFound     = errors.New("pricing unit not found")
	ErrHoldNotFound     = errors.New("hold not found")
	ErrNoAvailability   = errors.New("no availability remaining")
	ErrCustomerRequired = errors.New("customer identifier required")
	ErrCheckInRequired  = errors.New("check-in date required")
	ErrReasonRequired   = errors.New("override reason required")
	ErrPriceOutOfRange  = errors.New("price outside day bounds")
	ErrRoomTypeRequired = errors.New("room type required")
	ErrInvalidPeriod    = errors.New("invalid pricing period")
	ErrInvalidCapacity  = errors.New("invalid capacity")
	ErrInvalidBasePrice = errors.New("invalid base price")
	ErrInvalidID        = errors.New("invalid id")
)
