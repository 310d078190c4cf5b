package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderRef builds the human-readable order reference shown to players:
// a UTC timestamp plus a random suffix, e.g. FB-20260515083000-9F2C41AB.
// The suffix keeps references generated within the same second distinct;
// the unique index on order_ref backs that up.
func NewOrderRef(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("FB-%s-%s", now.UTC().Format("20060102150405"), suffix)
}
