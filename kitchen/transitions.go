package kitchen

import "github.com/comanda-app/comanda/domain"

// NextStatus returns the single forward step allowed from `from` for an
// order of the given type. Finished and canceled orders have none.
func NextStatus(from domain.Status, typ domain.OrderType) (domain.Status, bool) {
	switch from {
	case domain.StatusPending:
		return domain.StatusPreparing, true
	case domain.StatusPreparing:
		return domain.StatusReadyToSend, true
	case domain.StatusReadyToSend:
		if typ == domain.OrderTypeDelivery {
			return domain.StatusOutForDelivery, true
		}
		return domain.StatusFinished, true
	case domain.StatusOutForDelivery:
		if typ == domain.OrderTypeDelivery {
			return domain.StatusFinished, true
		}
	}
	return "", false
}

// CanAdvance -> true kalau transisi from -> to ada di tabel
func CanAdvance(from domain.Status, typ domain.OrderType, to domain.Status) bool {
	next, ok := NextStatus(from, typ)
	return ok && next == to
}

// ActionLabel names the staff action that performs from -> next.
func ActionLabel(from domain.Status, typ domain.OrderType) string {
	switch from {
	case domain.StatusPending:
		return "start_preparing"
	case domain.StatusPreparing:
		return "mark_ready"
	case domain.StatusReadyToSend:
		if typ == domain.OrderTypeDelivery {
			return "dispatch"
		}
		return "mark_delivered"
	case domain.StatusOutForDelivery:
		return "mark_complete"
	}
	return ""
}
