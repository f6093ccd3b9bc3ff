package v1

import (
	"strconv"

	"github.com/ProjectsTask/EasySwapBase/errcode"
	"github.com/ProjectsTask/EasySwapBase/xhttp"
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuction/src/errdef"
)

const (
	// HeaderUserId 调用方身份头, 由上游网关鉴权后注入
	HeaderUserId = "X-User-Id"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// userIdFromHeader 从请求头解析调用方用户 ID
// 缺失或非法时直接返回参数错误响应
func userIdFromHeader(c *gin.Context) (int64, bool) {
	userId, err := strconv.ParseInt(c.GetHeader(HeaderUserId), 10, 64)
	if err != nil || userId <= 0 {
		xhttp.Error(c, errcode.ErrInvalidParams)
		return 0, false
	}
	return userId, true
}

// pathId 解析路径中的数字 ID 参数
func pathId(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		xhttp.Error(c, errcode.ErrInvalidParams)
		return 0, false
	}
	return id, true
}

// pageParams 解析分页参数, 越界时回退到缺省值
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// respondErr 业务错误转 HTTP 响应
// 带分类的业务错误把原因透给调用方, 其余一律视为内部错误
func respondErr(c *gin.Context, err error) {
	if errdef.KindOf(err) != errdef.KindUnknown {
		xhttp.Error(c, errcode.NewCustomErr(err.Error()))
		return
	}
	xhttp.Error(c, errcode.ErrUnexpected)
}
