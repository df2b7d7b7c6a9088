package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"warespace/internal/models"
	"warespace/internal/monitoring"
	"warespace/internal/registry"
)

// Server represents the HTTP request layer over the location registry
type Server struct {
	Router   *gin.Engine
	registry *registry.Registry
	monitor  *monitoring.Monitor
	hub      *Hub
}

// NewServer creates the API server and wires the registry's transition feed
// into the websocket hub and the status gauge. monitor may be nil in tests.
func NewServer(reg *registry.Registry, mon *monitoring.Monitor) *Server {
	s := &Server{
		Router:   gin.Default(),
		registry: reg,
		monitor:  mon,
		hub:      newHub(),
	}

	reg.SetOnTransition(s.onTransition)
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.Router.GET("/health", s.Health)
	s.Router.GET("/locations", s.GetLocations)
	s.Router.POST("/reserve", s.Reserve)
	s.Router.POST("/occupy/:location_id", s.Occupy)
	s.Router.POST("/free/:location_id", s.Free)
	s.Router.POST("/move", s.Move)
	s.Router.GET("/reservations/:id", s.GetReservation)
	s.Router.GET("/ws", s.handleWebSocket)
}

func (s *Server) onTransition(ev registry.Event) {
	s.hub.Broadcast(ev)
	if s.monitor != nil {
		s.monitor.SetStatusCounts(s.registry.StatusCounts())
	}
}

func (s *Server) record(op, result string) {
	if s.monitor != nil {
		s.monitor.RecordOperation(op, result)
	}
}

// renderError maps registry errors onto HTTP status codes
func (s *Server) renderError(c *gin.Context, op string, err error) {
	var notFound *registry.NotFoundError
	var resNotFound *registry.ReservationNotFoundError
	var conflict *registry.ConflictError

	switch {
	case errors.As(err, &notFound) || errors.As(err, &resNotFound):
		s.record(op, "not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		s.record(op, "conflict")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.record(op, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Health reports liveness and the catalogue size
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "locations": s.registry.Count()})
}

// GetLocations answers filtered catalogue queries
func (s *Server) GetLocations(c *gin.Context) {
	filter := registry.Filter{
		AreaID:  c.Query("area_id"),
		GroupID: c.Query("group_id"),
	}

	if v := c.Query("status"); v != "" {
		status := models.LocationStatus(v)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status " + v})
			return
		}
		filter.Status = status
	}
	if v := c.Query("area_type"); v != "" {
		areaType := models.AreaType(v)
		if !areaType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area_type " + v})
			return
		}
		filter.AreaType = areaType
	}

	var err error
	if filter.MinLength, err = intQuery(c, "min_l"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.MinWidth, err = intQuery(c, "min_w"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.MinHeight, err = intQuery(c, "min_h"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.MinWeight, err = intQuery(c, "min_weight"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, count := s.registry.Query(filter)
	s.record("query", "ok")
	c.JSON(http.StatusOK, gin.H{"count": count, "items": items})
}

func intQuery(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid " + name + ": " + v)
	}
	return n, nil
}

type reserveRequest struct {
	ID          string   `json:"id"`
	LocationIDs []string `json:"location_ids" binding:"required,min=1"`
	Ref         string   `json:"ref"`
	FromTS      string   `json:"from_ts"`
	UntilTS     string   `json:"until_ts"`
}

// Reserve places a hold over a set of locations
func (s *Server) Reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.registry.Reserve(registry.ReservationRequest{
		ID:          req.ID,
		LocationIDs: req.LocationIDs,
		Ref:         req.Ref,
		FromTS:      req.FromTS,
		UntilTS:     req.UntilTS,
	})
	if err != nil {
		s.renderError(c, "reserve", err)
		return
	}

	s.record("reserve", "ok")
	c.JSON(http.StatusOK, gin.H{"ok": true, "reservation": res})
}

// Occupy puts a pallet into a location
func (s *Server) Occupy(c *gin.Context) {
	loc, err := s.registry.Occupy(c.Param("location_id"), c.Query("pallet_ref"))
	if err != nil {
		s.renderError(c, "occupy", err)
		return
	}

	s.record("occupy", "ok")
	c.JSON(http.StatusOK, gin.H{"ok": true, "location": loc})
}

// Free releases a location back to FREE regardless of its current status
func (s *Server) Free(c *gin.Context) {
	loc, err := s.registry.Release(c.Param("location_id"))
	if err != nil {
		s.renderError(c, "release", err)
		return
	}

	s.record("release", "ok")
	c.JSON(http.StatusOK, gin.H{"ok": true, "location": loc})
}

type moveRequest struct {
	From      string `json:"from_location_id" form:"from_location_id"`
	To        string `json:"to_location_id" form:"to_location_id"`
	PalletRef string `json:"pallet_ref" form:"pallet_ref"`
}

// Move relocates a pallet between two locations
func (s *Server) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.From == "" && req.To == "" {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.From == "" || req.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from_location_id and to_location_id are required"})
		return
	}

	from, to, err := s.registry.Move(req.From, req.To, req.PalletRef)
	if err != nil {
		s.renderError(c, "move", err)
		return
	}

	s.record("move", "ok")
	c.JSON(http.StatusOK, gin.H{"ok": true, "from": from, "to": to})
}

// GetReservation looks up a reservation in the ledger
func (s *Server) GetReservation(c *gin.Context) {
	res, err := s.registry.GetReservation(c.Param("id"))
	if err != nil {
		s.renderError(c, "get_reservation", err)
		return
	}

	c.JSON(http.StatusOK, res)
}
