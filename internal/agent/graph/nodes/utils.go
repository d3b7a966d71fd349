package nodes

import (
	"github.com/autostream-assistant/server/internal/agent/model"
)

// ===== Small helpers to keep nodes simple/readable =====

// firstMissing returns the highest-priority missing field, or "".
func firstMissing(missing []model.Field) model.Field {
	if len(missing) == 0 {
		return ""
	}
	return missing[0]
}

// phaseFor returns PhaseDone for sessions whose lead is already submitted.
func phaseFor(state *model.ConversationState, p model.Phase) model.Phase {
	if state.LeadSubmitted {
		return model.PhaseDone
	}
	return p
}

func contains(fields []model.Field, f model.Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}
