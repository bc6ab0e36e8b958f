package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrContentBlocked  = fmt.Errorf("generation blocked by safety filters")
	ErrEmptyGeneration = fmt.Errorf("generation returned no candidates")
	ErrNameRequired    = fmt.Errorf("display name must not be empty")
	ErrUnknownEvent    = fmt.Errorf("unknown event type")
)
