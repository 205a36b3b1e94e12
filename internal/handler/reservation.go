package handler

import (
    "context"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
    "github.com/iliyamo/restaurant-reservation/internal/config"
    "github.com/iliyamo/restaurant-reservation/internal/model"
    "github.com/iliyamo/restaurant-reservation/internal/queue"
    "github.com/iliyamo/restaurant-reservation/internal/repository"
    queue_publisher "github.com/iliyamo/restaurant-reservation/internal/service"
)

// ReservationHandler serves slot/table availability and the reservation
// lifecycle.  Creation is open to guests, so it resolves an optional
// bearer token itself instead of sitting behind the JWT middleware.
type ReservationHandler struct {
    Cfg          config.Config
    Schedule     *booking.Schedule
    Allocator    *booking.Allocator
    Reservations *repository.ReservationRepo
    Tables       *repository.TableRepo
}

// NewReservationHandler constructs a ReservationHandler.  All
// dependencies must be non-nil.
func NewReservationHandler(cfg config.Config, s *booking.Schedule, a *booking.Allocator, res *repository.ReservationRepo, tables *repository.TableRepo) *ReservationHandler {
    if s == nil || a == nil || res == nil || tables == nil {
        panic("nil dependency passed to NewReservationHandler")
    }
    return &ReservationHandler{Cfg: cfg, Schedule: s, Allocator: a, Reservations: res, Tables: tables}
}

type createReservationReq struct {
    TableID     uint64    `json:"table_id"`
    SlotStart   time.Time `json:"slot_start"`
    GuestCount  uint32    `json:"guest_count"`
    PhoneNumber string    `json:"phone_number"`
    Name        string    `json:"name"`
    Comments    string    `json:"comments"`
}

// Create handles POST /v1/reservations.  Authenticated callers book as
// themselves; everyone else books as a guest identified by phone
// number, created lazily inside the allocation transaction.  A conflict
// with an existing confirmed reservation returns 409 and is never
// retried server-side.
func (h *ReservationHandler) Create(c echo.Context) error {
    var req createReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.TableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id is required"})
    }
    if req.SlotStart.IsZero() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_start is required"})
    }

    actor := booking.ActorInput{PhoneNumber: req.PhoneNumber, Name: req.Name}
    if uid, ok := bearerUserID(c, h.Cfg.JWTSecret); ok {
        actor = booking.ActorInput{UserID: &uid}
    }

    res, err := h.Allocator.Create(c.Request().Context(), booking.CreateRequest{
        TableID:    req.TableID,
        SlotStart:  req.SlotStart.UTC(),
        GuestCount: req.GuestCount,
        Actor:      actor,
        Comments:   strings.TrimSpace(req.Comments),
    })
    if err != nil {
        if bookingStatus(err) == http.StatusInternalServerError {
            log.Printf("reservation create failed: table=%d slot=%s..%s: %v",
                req.TableID,
                req.SlotStart.UTC().Format(time.RFC3339),
                req.SlotStart.UTC().Add(h.Cfg.SlotDuration).Format(time.RFC3339),
                err)
        }
        return bookingError(c, err)
    }

    go h.publishConfirmed(res)

    return c.JSON(http.StatusCreated, echo.Map{"reservation": res})
}

// publishConfirmed fires the reservation.confirmed event after commit.
// Failures are logged by the publisher and never surface to the client.
func (h *ReservationHandler) publishConfirmed(res *model.Reservation) {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    ev := queue.ReservationConfirmedEvent{
        ReservationID: res.ID,
        TableID:       res.TableID,
        GuestCount:    res.GuestCount,
        PhoneNumber:   res.PhoneNumber,
        StartsAt:      res.StartTime.Format(time.RFC3339),
        EndsAt:        res.EndTime.Format(time.RFC3339),
        ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
    }
    if id, ok := res.Actor.UserID(); ok {
        ev.UserID = id
    }
    if id, ok := res.Actor.GuestID(); ok {
        ev.GuestID = id
    }
    if t, err := h.Tables.GetByID(ctx, res.TableID); err == nil {
        ev.TableNumber = t.TableNumber
    }
    _ = queue_publisher.PublishReservationConfirmed(ctx, ev)
}

// AvailableSlots handles GET /v1/reservations/available-slots.  Query
// params: date (YYYY-MM-DD, required) and guest_count (optional; when
// present only tables seating that many count as availability).
func (h *ReservationHandler) AvailableSlots(c echo.Context) error {
    date, err := parseDate(c.QueryParam("date"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    minGuests := 0
    if gc := c.QueryParam("guest_count"); gc != "" {
        n, err := strconv.Atoi(gc)
        if err != nil || n < 1 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest_count"})
        }
        minGuests = n
    }
    slots, err := h.Schedule.SlotsForDate(c.Request().Context(), date, minGuests)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": slots})
}

// AvailableTables handles GET /v1/reservations/available-tables.  Query
// params: slot_start (RFC3339, must lie on the slot grid) and an
// optional guest_count.  Every table is returned with an availability
// flag and, when blocked, the first failing gate's reason.
func (h *ReservationHandler) AvailableTables(c echo.Context) error {
    slotStart, err := time.Parse(time.RFC3339, c.QueryParam("slot_start"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_start must be RFC3339"})
    }
    minGuests := 0
    if gc := c.QueryParam("guest_count"); gc != "" {
        n, err := strconv.Atoi(gc)
        if err != nil || n < 1 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest_count"})
        }
        minGuests = n
    }
    tables, err := h.Schedule.TablesForSlot(c.Request().Context(), slotStart.UTC(), minGuests)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": tables})
}

// Get handles GET /v1/reservations/:id (JWT).  Customers see only their
// own reservations; admins see everything.
func (h *ReservationHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    res, err := h.Reservations.GetByID(c.Request().Context(), id)
    if err != nil {
        return bookingError(c, err)
    }
    if !h.canAccess(c, res, userID) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

type updateReservationReq struct {
    Comments   *string `json:"comments"`
    Status     *string `json:"status"`
    GuestCount *uint32 `json:"guest_count"`
}

// Update handles PUT /v1/reservations/:id (JWT).  Only comments, status
// and guest count are mutable; moving a reservation in time or between
// tables is cancel + recreate.
func (h *ReservationHandler) Update(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    current, err := h.Reservations.GetByID(c.Request().Context(), id)
    if err != nil {
        return bookingError(c, err)
    }
    if !h.canAccess(c, current, userID) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    var req updateReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    res, err := h.Allocator.Update(c.Request().Context(), id, booking.Patch{
        Comments:   req.Comments,
        Status:     req.Status,
        GuestCount: req.GuestCount,
    })
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// ListByUser handles GET /v1/users/:id/reservations (JWT).  Customers
// list only themselves.
func (h *ReservationHandler) ListByUser(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    if id != callerID && !isAdmin(c) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    items, err := h.Reservations.ListByUser(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListByGuestPhone handles GET /v1/guests/:phone/reservations (ADMIN).
func (h *ReservationHandler) ListByGuestPhone(c echo.Context) error {
    phone := strings.TrimSpace(c.Param("phone"))
    if phone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
    }
    items, err := h.Reservations.ListByGuestPhone(c.Request().Context(), phone)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete handles DELETE /v1/reservations/:id (ADMIN).  Hard delete;
// the normal cancellation path is PUT with status CANCELLED.
func (h *ReservationHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    if err := h.Reservations.Delete(c.Request().Context(), id); err != nil {
        return bookingError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

func (h *ReservationHandler) canAccess(c echo.Context, res *model.Reservation, callerID uint64) bool {
    if isAdmin(c) {
        return true
    }
    id, ok := res.Actor.UserID()
    return ok && id == callerID
}

func isAdmin(c echo.Context) bool {
    role, _ := c.Get("role").(string)
    return role == "ADMIN"
}
