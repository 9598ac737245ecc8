package model

// Environment names.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Scope carries the identity of the user a request acts on behalf of.
type Scope struct {
	UserID   int64
	ChatID   int64
	Username string
}
