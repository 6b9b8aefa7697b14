package circulation

import (
	"context"
	"strings"

	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

const resourceItems = "items"

// ItemsResource looks up inventory items.
type ItemsResource struct {
	client *Client
}

// NewItemsResource -.
func NewItemsResource(c *Client) *ItemsResource {
	return &ItemsResource{client: c}
}

// GetItemByBarcode returns the item with the barcode or ErrItemNotFound.
func (r *ItemsResource) GetItemByBarcode(ctx context.Context, tok auth.Token, barcode string) (*Item, error) {
	var items itemCollection
	if err := r.client.Get(ctx, tok, resourceItems, "/inventory/items", pageQuery("barcode=="+cqlString(barcode), 0, 1), &items); err != nil {
		return nil, err
	}

	if len(items.Items) == 0 {
		return nil, ErrItemNotFound
	}

	return &items.Items[0], nil
}

var itemStatuses = map[string]sip2.CirculationStatus{
	"on order":          sip2.CirculationOnOrder,
	"available":         sip2.CirculationAvailable,
	"checked out":       sip2.CirculationCharged,
	"in process":        sip2.CirculationInProcess,
	"awaiting pickup":   sip2.CirculationWaitingOnHoldShelf,
	"awaiting delivery": sip2.CirculationWaitingOnHoldShelf,
	"in transit":        sip2.CirculationInTransit,
	"claimed returned":  sip2.CirculationClaimedReturned,
	"declared lost":     sip2.CirculationLost,
	"aged to lost":      sip2.CirculationLost,
	"lost and paid":     sip2.CirculationLost,
	"missing":           sip2.CirculationMissing,
}

// CirculationStatusOf maps a backend item status name onto the SIP2
// circulation status. Unknown names are "other".
func CirculationStatusOf(name string) sip2.CirculationStatus {
	if s, ok := itemStatuses[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s
	}

	return sip2.CirculationOther
}
