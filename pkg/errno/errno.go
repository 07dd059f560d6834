package errno

import (
	"errors"
	"fmt"
)

const (
	SuccessCode    = 0
	ServiceErrCode = iota + 10000
	ParamErrCode
	RequestErrCode
	StoreErrCode
	CacheErrCode
	CommentNotExistErrCode
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{code, msg}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

var (
	Success            = NewErrNo(SuccessCode, "Success")
	ServiceErr         = NewErrNo(ServiceErrCode, "Service is unable to start successfully")
	ParamErr           = NewErrNo(ParamErrCode, "Wrong Parameter has been given")
	RequestErr         = NewErrNo(RequestErrCode, "Wrong Request has been given")
	StoreErr           = NewErrNo(StoreErrCode, "Record store operation failed")
	CacheErr           = NewErrNo(CacheErrCode, "Cache operation failed")
	CommentNotExistErr = NewErrNo(CommentNotExistErrCode, "Comment does not exist")
)

// ConvertErr converts any error to an ErrNo; unrecognized errors are
// wrapped as ServiceErr with the original message preserved.
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	s := ServiceErr
	s.ErrMsg = err.Error()
	return s
}
