package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stage-slot-booking/internal/handler"
    "github.com/iliyamo/stage-slot-booking/internal/middleware"
)

// RegisterBooking registers the booking lifecycle routes.  All of them
// require a valid access token; role middleware narrows each route to
// the side of the marketplace that may call it.  Frozen accounts carry
// no role and are refused everywhere below.
func RegisterBooking(
    e *echo.Echo,
    jwtSecret string,
    cal *handler.CalendarHandler,
    bk *handler.BookingHandler,
    rv *handler.ReviewHandler,
    ch *handler.ChatHandler,
    bd *handler.BandHandler,
) {
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))

    // Venue and calendar management is director-only.
    director := auth.Group("", middleware.RequireRole("DIRECTOR"))
    director.POST("/venues", cal.CreateVenue)
    director.POST("/calendars", cal.CreateCalendar)
    director.POST("/bookings/:id/accept", bk.Accept)
    director.POST("/bookings/:id/reject", bk.Reject)

    // Requesting and cancelling is for the band side.
    band := auth.Group("", middleware.RequireRole("ARTIST", "PROMOTER"))
    band.POST("/bands", bd.Create)
    band.POST("/slots/:id/bookings", bk.Request)
    band.POST("/bookings/:id/cancel", bk.Cancel)

    // Everything below is open to any unfrozen role.
    any := auth.Group("", middleware.RequireRole("ARTIST", "PROMOTER", "DIRECTOR"))
    any.GET("/bands/mine", bd.ListMine)
    any.GET("/calendars/:id", cal.GetCalendar)
    any.GET("/bookings/mine", bk.ListMine)
    any.GET("/bookings/:id", bk.Get)
    any.POST("/bookings/:id/reviews", rv.Create)
    any.GET("/persons/:id/reviews", rv.ListForPerson)
    any.GET("/bookings/:id/chat", ch.Get)
    any.POST("/bookings/:id/chat/messages", ch.PostMessage)
    any.GET("/bookings/:id/chat/messages", ch.ListMessages)
}
