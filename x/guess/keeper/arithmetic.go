package keeper

import (
	"fmt"
	"math"
)

func addInt64Checked(base int64, delta int64, field string) (int64, error) {
	if delta > 0 && base > math.MaxInt64-delta {
		return 0, fmt.Errorf("%s overflows int64", field)
	}
	if delta < 0 && base < math.MinInt64-delta {
		return 0, fmt.Errorf("%s underflows int64", field)
	}
	return base + delta, nil
}
