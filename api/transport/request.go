package transport

type CollectionRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TaskRequest carries expires_at as RFC3339 or a plain YYYY-MM-DD date.
type TaskRequest struct {
	Content   string `json:"content"`
	ExpiresAt string `json:"expires_at"`
}

// AuthLoginRequest is optional; the user comes from the bearer token.
type AuthLoginRequest struct {
	DisplayName string `json:"display_name"`
	TTL         int64  `json:"ttl_seconds"`
}

type DevLoginRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	TTL         int64  `json:"ttl_seconds"`
}

type RefreshRequest struct {
	TTL int64 `json:"ttl_seconds"`
}
