package errs

import "errors"

var ErrOrderNotFound = errors.New("order not found")
var ErrCustomerNotFound = errors.New("customer not found")
var ErrCustomerHasBalance = errors.New("customer has outstanding balance")
var ErrPaymentExceedsBalance = errors.New("payment exceeds balance owed")
var ErrPhoneAlreadyExists = errors.New("phone already registered")
