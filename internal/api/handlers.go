package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/colony-core/internal/sim"
	"github.com/annel0/colony-core/internal/vec"
	"github.com/annel0/colony-core/internal/world"
	"github.com/annel0/colony-core/internal/world/tile"
	"github.com/gin-gonic/gin"
)

// GenericResponse – общий формат ответа API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CellRef – координаты клетки в запросе
type CellRef struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (r CellRef) index() world.CellIndex {
	return vec.New3(r.X, r.Y, r.Z)
}

// SelectionRequest – выделение клеток
type SelectionRequest struct {
	Cells []CellRef `json:"cells" binding:"required"`
}

// TransformRequest – выделение и целевой тип тайла
type TransformRequest struct {
	Cells []CellRef `json:"cells" binding:"required"`
	To    string    `json:"to" binding:"required"`
}

// CellResponse – состояние клетки
type CellResponse struct {
	Cell           CellRef   `json:"cell"`
	Tile           tile.Type `json:"tile"`
	Texture        int       `json:"texture"`
	Pressure       int32     `json:"pressure"`
	RenderPressure float32   `json:"render_pressure"`
	Health         uint8     `json:"health"`
}

func (s *DebugServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
		"frame":  s.driver.FrameNumber(),
	})
}

func (s *DebugServer) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Статистика получена",
		Data: gin.H{
			"simulation": s.driver.Snapshot(),
			"process":    s.metrics.Report(),
		},
	})
}

func (s *DebugServer) handleCell(c *gin.Context) {
	var ref CellRef
	for _, q := range []struct {
		name string
		dst  *int
	}{{"x", &ref.X}, {"y", &ref.Y}, {"z", &ref.Z}} {
		v, err := strconv.Atoi(c.Query(q.name))
		if err != nil {
			fail(c, http.StatusBadRequest, "Неверная координата "+q.name)
			return
		}
		*q.dst = v
	}

	cell, err := s.driver.Cell(ref.index())
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Клетка получена",
		Data: CellResponse{
			Cell:           ref,
			Tile:           cell.Tile,
			Texture:        cell.Tile.TextureIndex(),
			Pressure:       cell.Pressure,
			RenderPressure: cell.RenderPressure,
			Health:         cell.Health,
		},
	})
}

func (s *DebugServer) handleAllowedTransformations(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Cells) == 0 {
		fail(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	allowed, err := s.driver.AllowedTransformations(selection(req.Cells))
	if err != nil {
		failErr(c, err)
		return
	}
	if allowed == nil {
		allowed = []world.Transformation{}
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Допустимые преобразования",
		Data:    gin.H{"allowed": allowed},
	})
}

func (s *DebugServer) handleTransform(c *gin.Context) {
	var req TransformRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Cells) == 0 {
		fail(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	to, err := tile.Parse(req.To)
	if err != nil || to == tile.Unset {
		fail(c, http.StatusBadRequest, "Неизвестный тип тайла")
		return
	}

	if err := s.driver.Transform(selection(req.Cells), to); err != nil {
		failErr(c, err)
		return
	}

	s.log.Info("🔨 Преобразовано %d клеток в %s", len(req.Cells), to)
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Преобразование выполнено",
		Data:    gin.H{"cells": len(req.Cells), "to": to},
	})
}

func selection(refs []CellRef) []world.CellIndex {
	out := make([]world.CellIndex, len(refs))
	for i, r := range refs {
		out[i] = r.index()
	}
	return out
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, GenericResponse{Success: false, Message: message})
}

// failErr переводит ошибки драйвера в HTTP-статусы
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sim.ErrOutOfBounds), errors.Is(err, sim.ErrUnsetCell):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, world.ErrTransformationNotAllowed):
		fail(c, http.StatusConflict, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}
