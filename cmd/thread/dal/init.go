package dal

import (
	"ThreadNest.com/cmd/thread/dal/db"
)

func Init() {
	db.Init()
}
