package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rhyrak/campus-schedule/internal/snapshot"
)

type handlers struct {
	snap *snapshot.Snapshot
}

func (h *handlers) handleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) handleGetRun(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"runId":    h.snap.RunID,
		"digest":   h.snap.Digest,
		"seed":     h.snap.Seed,
		"sessions": len(h.snap.Sessions),
		"students": len(h.snap.Students),
	})
}

func (h *handlers) handleGetSessions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"sessions": h.snap.Sessions,
	})
}

func (h *handlers) handleGetSessionWithId(ctx *gin.Context) {
	id, ok := index(ctx, len(h.snap.Sessions))
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, h.snap.Sessions[id])
}

func (h *handlers) handleGetStudents(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"students": h.snap.Students,
	})
}

func (h *handlers) handleGetStudentWithId(ctx *gin.Context) {
	id, ok := index(ctx, len(h.snap.Students))
	if !ok {
		return
	}
	student := h.snap.Students[id]
	sessions := make([]snapshot.Session, 0, len(student.Sessions))
	for _, sid := range student.Sessions {
		if sid >= 0 && sid < len(h.snap.Sessions) {
			sessions = append(sessions, h.snap.Sessions[sid])
		}
	}
	ctx.JSON(http.StatusOK, gin.H{
		"student":  student,
		"schedule": sessions,
	})
}

// index parses the :id parameter and writes the error response itself.
func index(ctx *gin.Context, n int) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.String(http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	if id < 0 || id >= n {
		ctx.Status(http.StatusNotFound)
		return 0, false
	}
	return id, true
}
