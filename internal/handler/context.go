package handler

type ContextKey string

var (
	AccountIDCtxKey ContextKey = "accountID"
	EmailCtxKey     ContextKey = "email"
	PlacementCtx    ContextKey = "placement"
	ActivityCtx     ContextKey = "activity"
)
