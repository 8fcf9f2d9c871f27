package portal

import (
	"strconv"
	"time"
)

type Credentials struct {
	Username string
	Password string
}

func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// NewSessionID correlates one calculate request with its progress events.
// It is unique per attempt as long as one user does not submit twice in the
// same millisecond.
func NewSessionID(username string, now time.Time) string {
	return username + "_" + strconv.FormatInt(now.UnixMilli(), 10)
}

type ProgressEvent struct {
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}
