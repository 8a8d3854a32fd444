package handler

type ContextKey string

var (
	UserTypeCtxKey ContextKey = "userType"
	SubCtxKey      ContextKey = "sub"
)
