package common

import (
	"time"
)

const (
	Name        = "ocdb-client"
	Version     = "0.1.0"
	Description = "Ocean Colour In-Situ Database client"
)

// UserAgent identifies the client in every request sent to the server.
const UserAgent = Name + " / " + Version + " " + Description

const DefaultClientTimeout = time.Minute

const DefaultHTTPTries = 1
