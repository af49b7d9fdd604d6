package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"totocalcio/internal/auth"
	"totocalcio/internal/models"
	"totocalcio/internal/services"
)

type PoolHandler struct {
	pool *services.PoolService
}

func NewPoolHandler(pool *services.PoolService) *PoolHandler {
	return &PoolHandler{
		pool: pool,
	}
}

// RegisterRoutes mounts the public report endpoints and the admin commands.
func (h *PoolHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/tournaments", h.ListTournaments)
		api.GET("/tournaments/active", h.GetActiveTournament)
		api.GET("/tournaments/:id", h.GetTournament)
		api.GET("/tournaments/:id/summary", h.GetTournamentSummary)
		api.GET("/tournaments/:id/standings", h.GetStandings)

		api.GET("/rounds", h.ListRounds)
		api.GET("/rounds/current", h.GetCurrentRound)
		api.GET("/rounds/:number/matches", h.GetMatches)
		api.GET("/rounds/:number/summary", h.GetRoundSummary)
		api.GET("/matches/pending", h.GetPendingMatches)

		api.GET("/participants", h.ListParticipants)
		api.GET("/participants/:id/predictions", h.GetPredictions)
		api.GET("/participants/:id/performance", h.GetPerformance)
		api.GET("/head-to-head", h.GetHeadToHead)
		api.GET("/statistics", h.GetStatistics)
		api.GET("/final-prizes/target", h.GetFinalPrizesTarget)
	}

	admin := router.Group("/api")
	admin.Use(auth.AdminMiddleware())
	{
		admin.POST("/tournaments", h.CreateTournament)
		admin.DELETE("/tournaments/:id", h.DeleteTournament)
		admin.PUT("/tournaments/active/prize-distribution", h.UpdatePrizeDistribution)
		admin.POST("/tournaments/active/conclude", h.ConcludeTournament)
		admin.POST("/tournaments/:id/report", h.PublishTournamentReport)

		admin.POST("/participants", h.AddParticipant)
		admin.PUT("/participants/:id", h.EditParticipant)
		admin.POST("/participants/:id/slip", h.RecordPredictionSlip)

		admin.PUT("/rounds/current/date", h.SetRoundDate)
		admin.POST("/rounds/current/matches", h.AddMatch)
		admin.POST("/rounds/current/conclude", h.ConcludeRound)
		admin.POST("/rounds/:number/report", h.PublishRoundReport)

		admin.POST("/predictions", h.RecordPrediction)
		admin.PUT("/matches/:id/result", h.RecordResult)
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseRoundNumber accepts a positive round number or "current", returned as zero.
func parseRoundNumber(c *gin.Context, raw string) (int, bool) {
	if raw == "" || raw == "current" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		badRequest(c, "invalid round number")
		return 0, false
	}
	return n, true
}

func logOperator(c *gin.Context, action string) {
	operator, _ := auth.GetOperator(c)
	log.Printf("[API] %s requested by %q", action, operator)
}

// ListTournaments returns every tournament
// GET /api/tournaments
func (h *PoolHandler) ListTournaments(c *gin.Context) {
	tournaments, err := h.pool.ListTournaments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tournaments": tournaments,
		"total":       len(tournaments),
	})
}

// GET /api/tournaments/active
func (h *PoolHandler) GetActiveTournament(c *gin.Context) {
	tournament, err := h.pool.ActiveTournament(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tournament)
}

// GET /api/tournaments/:id
func (h *PoolHandler) GetTournament(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tournament, err := h.pool.LoadTournament(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tournament)
}

// GET /api/tournaments/:id/summary
func (h *PoolHandler) GetTournamentSummary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	summary, err := h.pool.TournamentSummary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/tournaments/:id/standings
func (h *PoolHandler) GetStandings(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	standings, err := h.pool.Standings(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standings": standings})
}

// GET /api/rounds
func (h *PoolHandler) ListRounds(c *gin.Context) {
	rounds, err := h.pool.Rounds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rounds": rounds,
		"total":  len(rounds),
	})
}

// GET /api/rounds/current
func (h *PoolHandler) GetCurrentRound(c *gin.Context) {
	round, err := h.pool.CurrentRound(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// GET /api/rounds/:number/matches
func (h *PoolHandler) GetMatches(c *gin.Context) {
	number, ok := parseRoundNumber(c, c.Param("number"))
	if !ok {
		return
	}
	matches, err := h.pool.Matches(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// GET /api/rounds/:number/summary
func (h *PoolHandler) GetRoundSummary(c *gin.Context) {
	number, ok := parseRoundNumber(c, c.Param("number"))
	if !ok {
		return
	}
	summary, err := h.pool.RoundSummary(c.Request.Context(), 0, number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetPendingMatches lists suspended, postponed or delayed matches of the current round
// GET /api/matches/pending
func (h *PoolHandler) GetPendingMatches(c *gin.Context) {
	matches, err := h.pool.PendingMatches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// GET /api/participants
func (h *PoolHandler) ListParticipants(c *gin.Context) {
	participants, err := h.pool.Participants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"participants": participants,
		"total":        len(participants),
	})
}

// GET /api/participants/:id/predictions?round=3
func (h *PoolHandler) GetPredictions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	number, ok := parseRoundNumber(c, c.Query("round"))
	if !ok {
		return
	}
	predictions, err := h.pool.Predictions(c.Request.Context(), id, number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": predictions})
}

// GET /api/participants/:id/performance
func (h *PoolHandler) GetPerformance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	series, err := h.pool.ParticipantPerformance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	streak, err := h.pool.ParticipantStreak(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rounds":         series,
		"longest_streak": streak,
	})
}

// GET /api/head-to-head?a=1&b=2
func (h *PoolHandler) GetHeadToHead(c *gin.Context) {
	a, errA := strconv.ParseUint(c.Query("a"), 10, 64)
	b, errB := strconv.ParseUint(c.Query("b"), 10, 64)
	if errA != nil || errB != nil {
		badRequest(c, "query parameters a and b must be participant ids")
		return
	}
	rows, err := h.pool.HeadToHead(c.Request.Context(), uint(a), uint(b))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": rows})
}

// GET /api/statistics
func (h *PoolHandler) GetStatistics(c *gin.Context) {
	stats, err := h.pool.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	symbols, err := h.pool.MostSuccessfulPredictions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"statistics":                  stats,
		"most_successful_predictions": symbols,
	})
}

// GET /api/final-prizes/target?percentage=50
func (h *PoolHandler) GetFinalPrizesTarget(c *gin.Context) {
	pct, err := decimal.NewFromString(c.DefaultQuery("percentage", "100"))
	if err != nil {
		badRequest(c, "invalid percentage")
		return
	}
	amount, err := h.pool.FinalPrizesTarget(c.Request.Context(), pct)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"percentage": pct,
		"amount":     amount,
	})
}

// CreateTournament starts a new season
// POST /api/tournaments
func (h *PoolHandler) CreateTournament(c *gin.Context) {
	var req models.CreateTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cfg, err := req.ToConfig()
	if err != nil {
		badRequest(c, "start_date must use the YYYY-MM-DD format")
		return
	}

	logOperator(c, "create tournament")
	tournament, err := h.pool.CreateTournament(c.Request.Context(), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tournament)
}

// DELETE /api/tournaments/:id
func (h *PoolHandler) DeleteTournament(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	logOperator(c, "delete tournament")
	if err := h.pool.DeleteTournament(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PUT /api/tournaments/active/prize-distribution
func (h *PoolHandler) UpdatePrizeDistribution(c *gin.Context) {
	var req models.PrizeDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	tournament, err := h.pool.UpdatePrizeDistribution(c.Request.Context(), req.Distribution)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tournament)
}

// ConcludeTournament pays the final prizes. An empty body uses the stored distribution.
// POST /api/tournaments/active/conclude
func (h *PoolHandler) ConcludeTournament(c *gin.Context) {
	var req models.ConcludeTournamentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	logOperator(c, "conclude tournament")
	prizes, err := h.pool.ConcludeTournament(c.Request.Context(), req.Distribution)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"final_prizes": prizes})
}

// POST /api/tournaments/:id/report
func (h *PoolHandler) PublishTournamentReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	location, err := h.pool.PublishTournamentReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": location})
}

// POST /api/participants
func (h *PoolHandler) AddParticipant(c *gin.Context) {
	var req models.ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	participant, err := h.pool.AddParticipant(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, participant)
}

// PUT /api/participants/:id
func (h *PoolHandler) EditParticipant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	participant, err := h.pool.EditParticipant(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

// POST /api/participants/:id/slip
func (h *PoolHandler) RecordPredictionSlip(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.PredictionSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	predictions, err := h.pool.RecordPredictionSlip(c.Request.Context(), id, req.Picks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"predictions": predictions})
}

// PUT /api/rounds/current/date
func (h *PoolHandler) SetRoundDate(c *gin.Context) {
	var req models.RoundDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		badRequest(c, "date must use the YYYY-MM-DD format")
		return
	}
	round, err := h.pool.SetRoundDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// POST /api/rounds/current/matches
func (h *PoolHandler) AddMatch(c *gin.Context) {
	var req models.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	match, err := h.pool.AddMatch(c.Request.Context(), req.HomeTeam, req.AwayTeam)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, match)
}

// POST /api/rounds/current/conclude
func (h *PoolHandler) ConcludeRound(c *gin.Context) {
	logOperator(c, "conclude round")
	outcome, err := h.pool.ConcludeRound(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// POST /api/rounds/:number/report
func (h *PoolHandler) PublishRoundReport(c *gin.Context) {
	number, ok := parseRoundNumber(c, c.Param("number"))
	if !ok {
		return
	}
	location, err := h.pool.PublishRoundReport(c.Request.Context(), 0, number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": location})
}

// POST /api/predictions
func (h *PoolHandler) RecordPrediction(c *gin.Context) {
	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	prediction, err := h.pool.RecordPrediction(c.Request.Context(), req.ParticipantID, req.MatchID, req.Prediction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, prediction)
}

// RecordResult enters or corrects a match outcome
// PUT /api/matches/:id/result
func (h *PoolHandler) RecordResult(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	match, err := h.pool.RecordResult(c.Request.Context(), id, req.Result)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}
