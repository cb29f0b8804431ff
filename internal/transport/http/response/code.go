package response

// 错误分类（errors 对象的 key）
const (
	CatAuthentication = "authentication_error"
	CatToken          = "token_error"
	CatPermission     = "permission_error"
	CatNotFound       = "not_found"
	CatInternal       = "internal_error"
	CatNonField       = "non_field_errors"
	CatThrottled      = "throttled"
	CatUnavailable    = "service_unavailable"
)

// MsgInternal is the only thing clients learn about unexpected failures.
const MsgInternal = "Something went wrong"
