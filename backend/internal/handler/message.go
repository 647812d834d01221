package handler

import (
	"fmt"
	"net/http"

	"github.com/sociials/logs/shared/api"
	"github.com/sociials/logs/shared/domain"
	"github.com/sociials/logs/shared/utils"
)

// GetMessages serves GET /api/messages?type=announcements|status.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	channelType := domain.ParseChannelType(r.URL.Query().Get("type"))

	messages, err := h.message.List(r.Context(), channelType)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	maxAge := int(h.cfg.Public.Backend.Revalidate.Seconds())
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d", maxAge, maxAge))
	utils.WriteJSON(w, http.StatusOK, api.MessagesResponse{Messages: messages})
}
