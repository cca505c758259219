package middlewares

const (
	// gin context keys
	CtxRequestID = "request_id"
	CtxIdentity  = "auth.identity"
	CtxUser      = "auth.user"
)
