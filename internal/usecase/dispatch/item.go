package dispatch

import (
	"context"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/circulation"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

// itemInformationHandler answers 17.
type itemInformationHandler struct {
	*base
}

func (h *itemInformationHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.ItemInformationRequest](h.base, cmd)

	degraded := sip2.ItemInformationResponse{
		CirculationStatus: sip2.CirculationOther,
		TransactionDate:   h.now(),
		ItemIdentifier:    req.ItemIdentifier,
	}

	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	tok, err := h.b.Auth.ResolveAccessToken(ctx, s)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	item, err := h.b.Items.GetItemByBarcode(ctx, tok, req.ItemIdentifier)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	resp := sip2.ItemInformationResponse{
		CirculationStatus: circulation.CirculationStatusOf(item.Status.Name),
		TransactionDate:   h.now(),
		ItemIdentifier:    req.ItemIdentifier,
		TitleIdentifier:   item.Title,
		MediaType:         mediaType(item.MaterialType.Name),
		PermanentLocation: item.PermanentLocation.Name,
		CurrentLocation:   item.EffectiveLocation.Name,
	}

	if resp.CirculationStatus == sip2.CirculationCharged {
		loan, err := h.b.Circulation.GetOpenLoanByItem(ctx, tok, item.ID)
		if err != nil {
			h.log.Warn("session %s: loan lookup for item %s failed: %v", s.ID, item.ID, err)
		} else if loan != nil {
			resp.DueDate = loan.DueDate
		}
	}

	if n, err := h.b.Circulation.GetOpenRequestCount(ctx, tok, item.ID); err != nil {
		h.log.Warn("session %s: request count for item %s failed: %v", s.ID, item.ID, err)
	} else {
		resp.HoldQueueLength = sip2.Int(n)
	}

	return respond(resp), nil
}

// mediaType maps a material type name to the SIP2 media type code.
func mediaType(name string) string {
	switch name {
	case "book":
		return "001"
	case "sound recording", "audiobook":
		return "004"
	case "video recording", "dvd":
		return "006"
	case "":
		return ""
	default:
		return "000"
	}
}
