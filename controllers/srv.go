package controllers

import (
	"shelfshare/app"
	"shelfshare/db"
	"shelfshare/session"
)

// Srv 聚合 handlers 共享的依赖
type Srv struct {
	Repo *db.Repo
	Sess *session.Store
	Cfg  app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo: db.NewRepo(a.DB),
		Sess: a.Sessions(),
		Cfg:  a.Config,
	}
}
