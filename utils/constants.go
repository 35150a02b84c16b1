// File: utils/constants.go
package utils

import "time"

// HireSessionPrefix is the prefix used for Redis hire session keys.
const HireSessionPrefix = "hire:session:"

// HireSubmitPrefix is the prefix used for Redis submission latch keys.
const HireSubmitPrefix = "hire:submit:"

// HireSessionTTL is the time-to-live for an in-progress hire session.
const HireSessionTTL = 30 * time.Minute
