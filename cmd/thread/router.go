package main

import (
	"github.com/cloudwego/hertz/pkg/app/server"
)

func register(r *server.Hertz) {
	thread := r.Group("/thread")
	thread.GET("", GetThread)
	thread.GET("/comments", GetComments)
	thread.POST("/reply", PostReply)
	thread.DELETE("/comment/:id", DeleteComment)
	thread.POST("/reset", ResetThread)
}
