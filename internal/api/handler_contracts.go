package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medtrack-backend/internal/derive"
	"medtrack-backend/internal/model"
	"medtrack-backend/internal/parse"
)

const contractsCollection = "contracts"

type contractView struct {
	model.AMCContract
	// DaysUntilExpiry is nil when the end date cannot be read.
	DaysUntilExpiry *int `json:"daysUntilExpiry"`
}

func (h *Handler) newContractView(c model.AMCContract, today time.Time) contractView {
	view := contractView{AMCContract: c}
	end, err := parse.Date(c.EndDate)
	if err != nil {
		h.log.Warn("unreadable contract end date", zap.String("contract_id", c.ID), zap.Error(err))
		return view
	}
	days := derive.DaysUntilExpiry(end, today)
	view.DaysUntilExpiry = &days
	return view
}

// ListContracts handles GET /api/contracts.
func (h *Handler) ListContracts(c *gin.Context) {
	contracts, ok := list(h, c, h.store.Contracts())
	if !ok {
		return
	}
	today := h.today()
	views := make([]contractView, 0, len(contracts))
	for _, ct := range contracts {
		views = append(views, h.newContractView(ct, today))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) GetContract(c *gin.Context) {
	ct, ok := getOne(h, c, h.store.Contracts())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.newContractView(ct, h.today()))
}

func (h *Handler) CreateContract(c *gin.Context) {
	create(h, c, contractsCollection, h.store.Contracts())
}

func (h *Handler) UpdateContract(c *gin.Context) {
	replace(h, c, contractsCollection, h.store.Contracts(), func(ct *model.AMCContract, id string) { ct.ID = id })
}

func (h *Handler) DeleteContract(c *gin.Context) {
	remove(h, c, contractsCollection, h.store.Contracts())
}
