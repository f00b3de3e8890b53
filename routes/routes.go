package routes

import (
	"time"

	"shelfshare/app"
	"shelfshare/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s)
	invCtl := controllers.GetInventoryController(s)
	itemCtl := controllers.NewItemController(s)
	loanCtl := controllers.NewLoanController(s)
	noteCtl := controllers.NewNotificationController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.Sess, s.Repo)
	optAuthMW := app.OptionalAuth(s.Sess, s.Repo)
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 注册 / 登录（公开）
	// ------------------------------
	r.POST("/signup", authCtl.Signup)
	r.POST("/login", authCtl.Login)
	r.GET("/logout", authCtl.Logout)

	// ------------------------------
	// 浏览（匿名可见，私有库在谓词里挡）
	// ------------------------------
	browse := r.Group("", optAuthMW)
	{
		browse.GET("/all-inventories", invCtl.AllInventories)
		browse.GET("/view-inventory/:id", invCtl.ViewInventory)
	}

	// ------------------------------
	// 库存与物品（需登录）
	// ------------------------------
	auth := r.Group("", authMW, seenMW)
	{
		auth.POST("/delete-account", authCtl.DeleteAccount)

		auth.POST("/create-inventory", invCtl.CreateInventory)
		auth.POST("/manage-inventory", invCtl.ManageInventory)
		auth.GET("/my-inventory", invCtl.MyInventory)

		auth.POST("/create-item", itemCtl.CreateItem)
		auth.POST("/edit/:item_id", itemCtl.EditItem)
		auth.POST("/delete/:item_id", itemCtl.DeleteItem)

		// 借还流程
		auth.POST("/loan-request/:item_id", loanCtl.Request)
		auth.POST("/approve-loan-request/:loan_id", loanCtl.Approve)
		auth.POST("/reject-loan-request/:loan_id", loanCtl.Reject)
		auth.POST("/cancel-loan-request/:loan_id", loanCtl.Cancel)
		auth.POST("/return-loan-request/:loan_id", loanCtl.Return)
		auth.POST("/clear-loan-request/:loan_id", loanCtl.Clear)

		auth.GET("/manage-loans", loanCtl.ManageLoans)
		auth.GET("/view-loans", loanCtl.ViewLoans)

		// 关注
		auth.POST("/follow-inventory/:id", invCtl.Follow)
		auth.POST("/unfollow-inventory/:id", invCtl.Unfollow)
		auth.GET("/followed-inventories", invCtl.Followed)

		// 通知
		auth.GET("/notifications", noteCtl.List)
		auth.POST("/notifications/:id/read", noteCtl.MarkRead)
	}
}
