package submission

import (
	"fmt"
	"os"
	"strconv"
)

// StrictFromEnv reads CROPYIELD_STRICT. Unset means false.
func StrictFromEnv() (bool, error) {
	v := os.Getenv("CROPYIELD_STRICT")
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("CROPYIELD_STRICT: %w", err)
	}
	return b, nil
}
