package returns

import (
	"fmt"
	"time"

	"github.com/uniedit/returns/internal/utils/random"
)

const rmaSuffixLength = 6

// generateRMANumber returns "RMA-<epoch millis>-<6 uppercase base36 chars>".
func generateRMANumber(now time.Time) string {
	return fmt.Sprintf("RMA-%d-%s", now.UnixMilli(), random.UpperAlphaNum(rmaSuffixLength))
}
