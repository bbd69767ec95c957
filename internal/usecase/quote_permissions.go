package usecase

import "loncheras_plus/internal/domain/entities"

// WorkflowInfo drives which analyst actions the UI offers for a quote.
// It does not authorize anything; see CanAnalystModify and CanAnalystDelete.
type WorkflowInfo struct {
	CurrentStatus     entities.QuoteStatus `json:"current_status"`
	CanApprove        bool                 `json:"can_approve"`
	CanRejectDelete   bool                 `json:"can_reject_delete"`
	StatusDescription string               `json:"status_description"`
	Recommendation    string               `json:"recommendation"`
}

// CanAnalystModify reports whether actor may approve or reject q.
// Analysts cannot review their own quotes and approved quotes are closed.
func CanAnalystModify(q entities.Quote, actor entities.Actor) bool {
	if actor.Role != entities.RoleAnalyst {
		return false
	}
	if q.CreatedByUserID == actor.UID {
		return false
	}
	return q.Status != entities.QuoteStatusApproved
}

// CanAnalystDelete reports whether actor may reject-and-delete q.
func CanAnalystDelete(q entities.Quote, actor entities.Actor) bool {
	if !CanAnalystModify(q, actor) {
		return false
	}
	return q.Status != entities.QuoteStatusApproved
}

var workflowTexts = map[entities.QuoteStatus]struct {
	description    string
	recommendation string
}{
	entities.QuoteStatusDraft: {
		"Borrador: la cotización aún no ha sido enviada.",
		"Revise productos y precios antes de aprobar.",
	},
	entities.QuoteStatusSent: {
		"Enviada: el distribuidor envió la cotización para revisión.",
		"Revise la cotización y apruébela o recházela.",
	},
	entities.QuoteStatusViewed: {
		"Vista: la cotización ya fue revisada.",
		"Tome una decisión: aprobar o rechazar.",
	},
	entities.QuoteStatusApproved: {
		"Aprobada: la cotización fue aceptada.",
		"No se requieren más acciones.",
	},
	entities.QuoteStatusRejected: {
		"Rechazada: la cotización no fue aceptada.",
		"Elimínela si ya no es necesaria.",
	},
	entities.QuoteStatusExpired: {
		"Vencida: el periodo de validez terminó.",
		"Rechácela o espere un reenvío del distribuidor.",
	},
	entities.QuoteStatusCancelled: {
		"Cancelada: la cotización fue anulada.",
		"Puede eliminarla del sistema.",
	},
	entities.QuoteStatusPending: {
		"Pendiente: la cotización espera revisión.",
		"Revise la cotización y apruébela o recházela.",
	},
}

// GetWorkflowInfo derives the analyst workflow view from q.Status only.
func GetWorkflowInfo(q entities.Quote) WorkflowInfo {
	info := WorkflowInfo{
		CurrentStatus:   q.Status,
		CanApprove:      q.Status != entities.QuoteStatusApproved,
		CanRejectDelete: q.Status != entities.QuoteStatusApproved,
	}
	if texts, ok := workflowTexts[q.Status]; ok {
		info.StatusDescription = texts.description
		info.Recommendation = texts.recommendation
	} else {
		info.StatusDescription = "Estado desconocido."
		info.Recommendation = "Verifique la cotización."
	}
	return info
}
