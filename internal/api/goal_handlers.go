package api

import (
	"github.com/gin-gonic/gin"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/service"
)

func PostGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreateGoalRequest
		if !bindJSON(c, app, &req) {
			return
		}
		res, err := app.Goals().Create(c.Request.Context(), currentUser(c).ID, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to create goal")
			return
		}
		HandleCreated(c, app.Logger(), res)
	}
}

func ListGoals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		goals, err := app.Goals().List(c.Request.Context(), currentUser(c).ID,
			internal.GoalStatus(c.Query("status")), internal.Category(c.Query("category")))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to list goals")
			return
		}
		HandleSuccess(c, app.Logger(), goals, map[string]any{"count": len(goals)})
	}
}

func ListActiveGoals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		goals, err := app.Goals().ListActive(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to list active goals")
			return
		}
		HandleSuccess(c, app.Logger(), goals, map[string]any{"count": len(goals)})
	}
}

func ListCompletedGoals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		goals, err := app.Goals().ListCompleted(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to list completed goals")
			return
		}
		HandleSuccess(c, app.Logger(), goals, map[string]any{"count": len(goals)})
	}
}

func GetGoalStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := app.Goals().Stats(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to compute goal stats")
			return
		}
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}

func GetGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		goal, err := app.Goals().Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to load goal")
			return
		}
		HandleSuccess(c, app.Logger(), goal, nil)
	}
}

func PutGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UpdateGoalRequest
		if !bindJSON(c, app, &req) {
			return
		}
		res, err := app.Goals().Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update goal")
			return
		}
		HandleSuccess(c, app.Logger(), res, nil)
	}
}

func PutGoalProgress(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ProgressRequest
		if !bindJSON(c, app, &req) {
			return
		}
		res, err := app.Goals().UpdateProgress(c.Request.Context(), currentUser(c).ID, c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update progress")
			return
		}
		HandleSuccess(c, app.Logger(), res, nil)
	}
}

func CompleteGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := app.Goals().Complete(c.Request.Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to complete goal")
			return
		}
		HandleSuccess(c, app.Logger(), res, nil)
	}
}

func AbandonGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		goal, err := app.Goals().Abandon(c.Request.Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to abandon goal")
			return
		}
		HandleSuccess(c, app.Logger(), goal, nil)
	}
}

func DeleteGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		points, err := app.Goals().Delete(c.Request.Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to delete goal")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": c.Param("id"), "points": points}, nil)
	}
}
