package routes

import (
	"feedbackhub/controllers"

	"github.com/gin-gonic/gin"
)

func FormPageRouteHandler(ctx *gin.Context) {
	controllers.FormPage(ctx)
}

func SubmitFeedbackRouteHandler(ctx *gin.Context) {
	controllers.SubmitFeedback(ctx)
}

func PostFeedbackRouteHandler(ctx *gin.Context) {
	controllers.PostFeedback(ctx)
}

func HealthRouteHandler(ctx *gin.Context) {
	controllers.Health(ctx)
}
