package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/model"
    "github.com/iliyamo/restaurant-reservation/internal/repository"
)

// TableHandler exposes the table inventory: a public listing plus the
// admin CRUD used to manage the floor plan.
type TableHandler struct {
    Tables *repository.TableRepo
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(tables *repository.TableRepo) *TableHandler {
    if tables == nil {
        panic("nil repository passed to NewTableHandler")
    }
    return &TableHandler{Tables: tables}
}

// List handles GET /v1/tables.
func (h *TableHandler) List(c echo.Context) error {
    tables, err := h.Tables.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tables"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": tables})
}

// Get handles GET /v1/tables/:id.
func (h *TableHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
    }
    t, err := h.Tables.GetByID(c.Request().Context(), id)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"table": t})
}

type tableReq struct {
    TableNumber uint32 `json:"table_number"`
    Capacity    uint32 `json:"capacity"`
    IsAvailable *bool  `json:"is_available"`
}

// Create handles POST /v1/tables (ADMIN).
func (h *TableHandler) Create(c echo.Context) error {
    var req tableReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.TableNumber == 0 || req.Capacity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number and capacity are required"})
    }
    avail := true
    if req.IsAvailable != nil {
        avail = *req.IsAvailable
    }
    t, err := h.Tables.Create(c.Request().Context(), req.TableNumber, req.Capacity, avail)
    if err != nil {
        if err == repository.ErrTableNumberExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create table failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"table": t})
}

// Update handles PUT /v1/tables/:id (ADMIN).  Absent fields keep their
// current values, so flipping is_available alone is a one-field body.
func (h *TableHandler) Update(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
    }
    current, err := h.Tables.GetByID(c.Request().Context(), id)
    if err != nil {
        return bookingError(c, err)
    }

    var req tableReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    next := model.Table{
        ID:          current.ID,
        TableNumber: current.TableNumber,
        Capacity:    current.Capacity,
        IsAvailable: current.IsAvailable,
    }
    if req.TableNumber != 0 {
        next.TableNumber = req.TableNumber
    }
    if req.Capacity != 0 {
        next.Capacity = req.Capacity
    }
    if req.IsAvailable != nil {
        next.IsAvailable = *req.IsAvailable
    }
    t, err := h.Tables.Update(c.Request().Context(), &next)
    if err != nil {
        if err == repository.ErrTableNumberExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"})
        }
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"table": t})
}

// Delete handles DELETE /v1/tables/:id (ADMIN).
func (h *TableHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
    }
    if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
        return bookingError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
