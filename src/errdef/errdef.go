package errdef

import (
	"github.com/pkg/errors"
)

// Kind 业务错误分类
// API 层依据 Kind 决定响应码, Service/DAO 层只负责打标签
type Kind uint8

const (
	KindUnknown      Kind = iota
	KindNotFound          // 资源不存在 (拍卖/库存/出价)
	KindInvalidState      // 当前状态不允许该操作
	KindValidation        // 参数或业务规则校验失败
	KindForbidden         // 被禁止的操作 (如封禁用户出价)
	KindConflict          // 并发冲突, 调用方需按最新状态重试
)

// Err 携带分类信息的业务错误
type Err struct {
	kind Kind
	err  error
}

func (e *Err) Error() string {
	return e.err.Error()
}

func (e *Err) Unwrap() error {
	return e.err
}

// Kind 返回错误分类, nil 或非业务错误返回 KindUnknown
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Err
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

func newErr(kind Kind, msg string) error {
	return &Err{kind: kind, err: errors.New(msg)}
}

func wrapErr(kind Kind, err error, msg string) error {
	return &Err{kind: kind, err: errors.Wrap(err, msg)}
}

func NotFound(msg string) error {
	return newErr(KindNotFound, msg)
}

func InvalidState(msg string) error {
	return newErr(KindInvalidState, msg)
}

func Validation(msg string) error {
	return newErr(KindValidation, msg)
}

func Forbidden(msg string) error {
	return newErr(KindForbidden, msg)
}

func Conflict(msg string) error {
	return newErr(KindConflict, msg)
}

func WrapNotFound(err error, msg string) error {
	return wrapErr(KindNotFound, err, msg)
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsInvalidState(err error) bool {
	return KindOf(err) == KindInvalidState
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
