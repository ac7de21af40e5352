package lots

import (
	"errors"
	"fmt"

	"github.com/shkang/stockfolio/internal/domain"
)

// ErrExceedsAvailable is returned when a sell quantity is larger than the net
// quantity held in the lot it would sell from.
var ErrExceedsAvailable = errors.New("sell quantity exceeds available shares")

// ValidateSell checks that quantity can be sold out of the given lot. Selling
// exactly the full net quantity is allowed; anything above it is rejected.
func ValidateSell(lot domain.StockLot, quantity float64) error {
	if quantity <= 0 {
		return fmt.Errorf("sell quantity must be positive, got %v", quantity)
	}
	if quantity > lot.NetQuantity {
		return fmt.Errorf("%w: requested %v, available %v at %s",
			ErrExceedsAvailable, quantity, lot.NetQuantity, lot.BrokerName)
	}
	return nil
}
