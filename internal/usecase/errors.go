package usecase

import "ministry/internal/errors"

// ErrNotificationRejected marks a notification that can never be delivered, such as one
// with no recipient. Consumers dead-letter it instead of retrying.
var ErrNotificationRejected = errors.New("notification rejected")
