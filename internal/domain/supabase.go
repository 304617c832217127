package domain

// SupabaseClient is the auth side of Supabase used to check access tokens.
type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)
}
