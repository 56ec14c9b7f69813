package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
)

func registerAuthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Auth
	login := mw.WithRateLimit(d.Limiter, d.LoginRate, nil)
	otp := mw.WithRateLimit(d.Limiter, d.OTPRate, nil)

	r.Route("/auth", func(a chi.Router) {
		a.Method("POST", "/register", h(c.Register, login))
		a.Method("POST", "/login", h(c.Login, login))
		a.Method("POST", "/otp/request", h(c.RequestOTP, otp))
		a.Method("POST", "/otp/verify", h(c.VerifyOTP, otp))

		a.Group(func(p chi.Router) {
			p.Use(mw.RequireAuth(d.Issuer, d.Roles))
			p.Get("/me", c.Me)
			p.Post("/password", c.ChangePassword)
		})
	})
}
