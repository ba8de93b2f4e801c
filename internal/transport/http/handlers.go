package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"barberq/backend/internal/domain"
	"barberq/backend/internal/service/scheduling"
)

type availabilityEntryJSON struct {
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

type setAvailabilityRequest struct {
	Schedule []availabilityEntryJSON `json:"schedule"`
}

type addServiceRequest struct {
	Name            string   `json:"name"`
	Price           *float64 `json:"price"`
	DurationMinutes int      `json:"durationMinutes"`
}

type createBookingRequest struct {
	BusinessID string `json:"businessId"`
	ServiceID  string `json:"serviceId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

type serviceJSON struct {
	ServiceID       string  `json:"serviceId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

type providerBookingJSON struct {
	BookingID   string `json:"bookingId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	ServiceName string `json:"serviceName"`
	ClientID    string `json:"clientId"`
}

func (s *Server) setAvailability(c *gin.Context) {
	providerID := principal(c)

	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Warn("invalid request", slog.String("op", "SetAvailability"), slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadBody})
		return
	}

	entries := make([]scheduling.AvailabilityEntry, 0, len(req.Schedule))
	for _, e := range req.Schedule {
		entries = append(entries, scheduling.AvailabilityEntry(e))
	}

	if err := s.svc.SetAvailability(c.Request.Context(), providerID, entries); err != nil {
		writeError(c, s.log, "SetAvailability", err, slog.String("provider_id", providerID))
		return
	}

	s.log.Info("availability saved", slog.String("provider_id", providerID), slog.Int("entries", len(entries)))
	c.JSON(http.StatusOK, gin.H{"message": "Availability saved."})
}

func (s *Server) getAvailability(c *gin.Context) {
	providerID := principal(c)

	windows, err := s.svc.GetAvailability(c.Request.Context(), providerID)
	if err != nil {
		writeError(c, s.log, "GetAvailability", err, slog.String("provider_id", providerID))
		return
	}

	out := make([]availabilityEntryJSON, 0, len(windows))
	for _, w := range windows {
		out = append(out, availabilityEntryJSON{
			Day:         string(w.Weekday),
			StartTime:   w.StartTime,
			EndTime:     w.EndTime,
			IsAvailable: w.IsAvailable,
		})
	}
	c.JSON(http.StatusOK, gin.H{"schedule": out})
}

func (s *Server) addService(c *gin.Context) {
	providerID := principal(c)

	var req addServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Warn("invalid request", slog.String("op", "AddService"), slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadBody})
		return
	}

	svc, err := s.svc.AddService(c.Request.Context(), scheduling.AddServiceInput{
		ProviderID:      providerID,
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(c, s.log, "AddService", err, slog.String("provider_id", providerID))
		return
	}

	s.log.Info("service added", slog.String("provider_id", providerID), slog.String("service_id", svc.ID.String()))
	c.JSON(http.StatusCreated, gin.H{"serviceId": svc.ID.String(), "message": "Service added."})
}

func (s *Server) listProviderBookings(c *gin.Context) {
	providerID := principal(c)

	bookings, err := s.svc.ListProviderBookings(c.Request.Context(), providerID)
	if err != nil {
		writeError(c, s.log, "ListProviderBookings", err, slog.String("provider_id", providerID))
		return
	}

	out := make([]providerBookingJSON, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, providerBookingJSON{
			BookingID:   b.ID.String(),
			Date:        b.Date,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			ServiceName: b.ServiceName,
			ClientID:    b.ClientID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

func (s *Server) listServices(c *gin.Context) {
	providerID := c.Param("businessId")

	services, err := s.svc.ListServices(c.Request.Context(), providerID)
	if err != nil {
		writeError(c, s.log, "ListServices", err, slog.String("provider_id", providerID))
		return
	}

	out := make([]serviceJSON, 0, len(services))
	for _, svc := range services {
		out = append(out, serviceJSON{
			ServiceID:       svc.ID.String(),
			Name:            svc.Name,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

func (s *Server) listSlots(c *gin.Context) {
	providerID := c.Param("businessId")
	serviceID := c.Query("serviceId")

	slots, err := s.svc.ListSlots(c.Request.Context(), providerID, serviceID)
	if err != nil {
		writeError(c, s.log, "ListSlots", err, slog.String("provider_id", providerID), slog.String("service_id", serviceID))
		return
	}
	if slots == nil {
		slots = []domain.Slot{}
	}

	s.log.Debug("slots listed", slog.String("provider_id", providerID), slog.Int("count", len(slots)))
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (s *Server) createBooking(c *gin.Context) {
	clientID := principal(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Warn("invalid request", slog.String("op", "CreateBooking"), slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadBody})
		return
	}

	b, err := s.svc.CreateBooking(c.Request.Context(), scheduling.CreateBookingInput{
		ProviderID: req.BusinessID,
		ClientID:   clientID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		writeError(c, s.log, "CreateBooking", err,
			slog.String("provider_id", req.BusinessID),
			slog.String("client_id", clientID),
			slog.String("date", req.Date),
			slog.String("start_time", req.StartTime),
		)
		return
	}

	s.log.Info(
		"booking created",
		slog.String("booking_id", b.ID.String()),
		slog.String("provider_id", b.ProviderID),
		slog.String("client_id", b.ClientID),
		slog.String("date", b.Date),
		slog.String("start_time", b.StartTime),
	)
	c.JSON(http.StatusCreated, gin.H{"bookingId": b.ID.String()})
}
