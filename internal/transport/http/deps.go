package http

import (
	"github.com/contest-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/contest-api/internal/infrastructure/jwt"
	s3infra "github.com/contest-api/internal/infrastructure/s3"
	"github.com/contest-api/internal/notifier"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	ContestantRepo *dynamo.ContestantRepo
	TokenRepo      *dynamo.TokenRepo
	WinnerRepo     *dynamo.WinnerRepo
	AccountRepo    *dynamo.AccountRepo
	S3Store        *s3infra.Store
	Notifier       *notifier.Dispatcher
	JWTProvider    *jwtinfra.Provider
}
