package services

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")
var ErrCapacityExceeded = errors.New("active goal limit reached")
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// ValidationError 目标参数校验失败，发生在任何写入之前
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotYetAchievedError 目标尚未达成时的完成请求，携带当前进度供调用方返回
type NotYetAchievedError struct {
	Progress Progress
}

func (e *NotYetAchievedError) Error() string {
	return fmt.Sprintf("goal not yet achieved: %d/%d", e.Progress.Current, e.Progress.Target)
}

// DataUnavailableError 底层存储读取失败，调用方决定是否整体失败或跳过
type DataUnavailableError struct {
	Store string
	Err   error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable from %s: %v", e.Store, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}
