package api

import (
	"net/http"

	"curve-trade-sim-go/internal/launch"
	"curve-trade-sim-go/internal/models"
	"go.uber.org/zap"
)

type launchBody struct {
	Name            string             `json:"name"`
	Symbol          string             `json:"symbol"`
	Logo            string             `json:"logo"`
	Description     string             `json:"description"`
	SocialLinks     models.SocialLinks `json:"socialLinks"`
	CreatorID       flexInt            `json:"creatorId"`
	CreatorAddress  string             `json:"creatorAddress"`
	InitialPurchase flexFloat          `json:"initialPurchase"`
}

// handleLaunch handles POST /api/launch. A creator's initial purchase is
// bought through the ledger at the launch price before the startup is listed,
// so a launch the creator cannot pay for is never published.
func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	var body launchBody
	if err := parseJSONBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	startup, err := s.deps.Launches.Draft(launch.CreateRequest{
		Name:            body.Name,
		Symbol:          body.Symbol,
		Logo:            body.Logo,
		Description:     body.Description,
		SocialLinks:     body.SocialLinks,
		CreatorID:       int64(body.CreatorID),
		CreatorAddress:  body.CreatorAddress,
		InitialPurchase: float64(body.InitialPurchase),
	})
	if err != nil {
		s.respondServiceError(w, err, "Failed to launch")
		return
	}

	if startup.CreatorID > 0 && startup.InitialPurchase > 0 {
		_, err := s.deps.Ledger.RecordTrade(r.Context(), models.TradeRequest{
			UserID:  startup.CreatorID,
			Type:    models.TradeTypeTrade,
			Symbol:  startup.Symbol,
			CurveID: startup.ID,
			Name:    startup.Name,
			Side:    models.SideBuy,
			Amount:  startup.InitialPurchase,
			Price:   launch.LaunchPrice,
		})
		if err != nil {
			s.respondServiceError(w, err, "Failed to record initial purchase")
			return
		}
	}

	s.deps.Launches.Publish(startup)
	s.logger.Info("Startup launched",
		zap.String("startup_id", startup.ID),
		zap.String("symbol", startup.Symbol),
		zap.Int64("creator_id", startup.CreatorID),
		zap.Float64("initial_purchase", startup.InitialPurchase),
	)
	respondJSON(w, http.StatusCreated, startup)
}

// handleListLaunches handles GET /api/launch
func (s *Server) handleListLaunches(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.deps.Launches.List())
}
