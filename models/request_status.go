package models

import "errors"

type RequestStatus string

const (
	StatusNew       RequestStatus = "new"
	StatusContacted RequestStatus = "contacted"
	StatusCompleted RequestStatus = "completed"
	StatusCancelled RequestStatus = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid status")

// AllStatuses in display order.
var AllStatuses = []RequestStatus{StatusNew, StatusContacted, StatusCompleted, StatusCancelled}

// ParseStatus accepts any of the four values; transitions between them are not restricted.
func ParseStatus(s string) (RequestStatus, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}
