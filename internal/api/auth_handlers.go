package api

import (
	"github.com/gin-gonic/gin"

	"github.com/balasutharsan1247/student-fitness-app/internal/service"
)

func Register(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterRequest
		if !bindJSON(c, app, &req) {
			return
		}
		res, err := app.Accounts().Register(c.Request.Context(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Registration failed")
			return
		}
		HandleCreated(c, app.Logger(), res)
	}
}

func Login(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginRequest
		if !bindJSON(c, app, &req) {
			return
		}
		res, err := app.Accounts().Login(c.Request.Context(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Login failed")
			return
		}
		HandleSuccess(c, app.Logger(), res, nil)
	}
}

func GetMe(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := app.Accounts().Me(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to load profile")
			return
		}
		HandleSuccess(c, app.Logger(), user, nil)
	}
}

func UpdateProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UpdateProfileRequest
		if !bindJSON(c, app, &req) {
			return
		}
		user, err := app.Accounts().UpdateProfile(c.Request.Context(), currentUser(c).ID, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update profile")
			return
		}
		HandleSuccess(c, app.Logger(), user, nil)
	}
}

func UpdatePassword(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UpdatePasswordRequest
		if !bindJSON(c, app, &req) {
			return
		}
		res, err := app.Accounts().UpdatePassword(c.Request.Context(), currentUser(c).ID, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update password")
			return
		}
		HandleSuccess(c, app.Logger(), res, nil)
	}
}

func RecalculateLevel(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := app.Accounts().RecalculateLevel(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to recalculate level")
			return
		}
		HandleSuccess(c, app.Logger(), res, nil)
	}
}
