package api

import (
	"github.com/gin-gonic/gin"

	"github.com/balasutharsan1247/student-fitness-app/internal/service"
)

// PostFitnessLog creates the day's log or merges into the existing one.
func PostFitnessLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.FitnessLogRequest
		if !bindJSON(c, app, &req) {
			return
		}
		log, created, err := app.Fitness().Upsert(c.Request.Context(), currentUser(c).ID, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save fitness log")
			return
		}
		if created {
			HandleCreated(c, app.Logger(), log)
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func GetTodayLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		log, err := app.Fitness().Today(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "No log for today")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func GetLogByDate(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		log, err := app.Fitness().ByDate(c.Request.Context(), currentUser(c).ID, c.Param("date"))
		if err != nil {
			HandleError(c, app.Logger(), err, "No log for date")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func GetLogRange(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		logs, err := app.Fitness().Range(c.Request.Context(), currentUser(c).ID, c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch logs")
			return
		}
		HandleSuccess(c, app.Logger(), logs, map[string]any{"count": len(logs)})
	}
}

func GetAllLogs(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := app.Fitness().Page(c.Request.Context(), currentUser(c).ID,
			queryInt(c, "page", 1), queryInt(c, "limit", service.DefaultPageSize))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch logs")
			return
		}
		HandleSuccess(c, app.Logger(), page.Logs, map[string]any{
			"count": page.Count,
			"total": page.Total,
			"page":  page.Page,
			"pages": page.Pages,
		})
	}
}

func PutFitnessLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.FitnessLogRequest
		if !bindJSON(c, app, &req) {
			return
		}
		log, err := app.Fitness().Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update fitness log")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func DeleteFitnessLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.Fitness().Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, "Failed to delete fitness log")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": c.Param("id")}, nil)
	}
}

func GetWeeklyStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := app.Fitness().Weekly(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to compute weekly stats")
			return
		}
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}

func GetMonthlyStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := app.Fitness().Monthly(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to compute monthly stats")
			return
		}
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}

func GetDashboard(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := app.Fitness().Dashboard(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to build dashboard")
			return
		}
		HandleSuccess(c, app.Logger(), d, nil)
	}
}
