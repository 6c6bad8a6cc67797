package common

import (
	"encoding/hex"

	uuid "github.com/nu7hatch/gouuid"
)

// GenHexUUID returns a random (v4) uuid as 32 lowercase hex digits without
// dashes.
func GenHexUUID() string {
	// uuid.NewV4() reads from crypto/rand and only fails if the system
	// source of randomness is unavailable, so retry until it succeeds.
	for {
		if id, err := uuid.NewV4(); err == nil {
			return hex.EncodeToString(id[:])
		}
	}
}
