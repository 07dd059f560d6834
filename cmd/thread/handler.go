package main

import (
	"context"

	"ThreadNest.com/cmd/thread/service"
	"ThreadNest.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// threadService is the process-wide coordinator instance, set in main.go.
var threadService *service.ThreadService

func SetThreadService(s *service.ThreadService) {
	threadService = s
}

type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendResponse pack response
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	Err := errno.ConvertErr(err)
	c.JSON(consts.StatusOK, Response{
		Code:    Err.ErrCode,
		Message: Err.ErrMsg,
		Data:    data,
	})
}

type ReplyParam struct {
	ParentId string `form:"parent_id" json:"parent_id"`
	Content  string `form:"content" json:"content"`
	Author   string `form:"author" json:"author"`
}

// ThreadView is the rendered thread plus its derived statistics.
type ThreadView struct {
	Comments      interface{} `json:"comments"`
	TotalComments int         `json:"total_comments"`
	MaxDepth      int         `json:"max_depth"`
}

// GetThread returns the derived forest with stats.
func GetThread(ctx context.Context, c *app.RequestContext) {
	forest := threadService.Forest(ctx)
	total, maxDepth := threadService.Stats(ctx)
	SendResponse(c, errno.Success, ThreadView{
		Comments:      forest,
		TotalComments: total,
		MaxDepth:      maxDepth,
	})
}

// GetComments returns the flat collection.
func GetComments(ctx context.Context, c *app.RequestContext) {
	SendResponse(c, errno.Success, threadService.Comments())
}

// PostReply applies an optimistic reply; the store outcome is observed
// through subsequent thread state.
func PostReply(ctx context.Context, c *app.RequestContext) {
	var param ReplyParam
	if err := c.BindAndValidate(&param); err != nil {
		hlog.Info(err)
		SendResponse(c, errno.RequestErr.WithMessage(err.Error()), nil)
		return
	}

	if err := threadService.Reply(ctx, param.ParentId, param.Content, param.Author); err != nil {
		SendResponse(c, errno.ConvertErr(err), nil)
		return
	}
	SendResponse(c, errno.Success, nil)
}

// DeleteComment removes a comment and its descendants optimistically.
func DeleteComment(ctx context.Context, c *app.RequestContext) {
	commentId := c.Param("id")
	if err := threadService.Delete(ctx, commentId); err != nil {
		SendResponse(c, errno.ConvertErr(err), nil)
		return
	}
	SendResponse(c, errno.Success, nil)
}

// ResetThread empties the store and the local collection.
func ResetThread(ctx context.Context, c *app.RequestContext) {
	if err := threadService.Clear(ctx); err != nil {
		SendResponse(c, errno.ConvertErr(err), nil)
		return
	}
	SendResponse(c, errno.Success, nil)
}
