package api

import (
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// Services groups the service dependencies for the API server.
type Services struct {
	Auth     *service.AuthService
	Session  *service.SessionService
	User     *service.UserService
	Book     *service.BookService
	Location *service.LocationService
	Tag      *service.TagService
	Stats    *service.StatsService
	Public   *service.PublicService
}
