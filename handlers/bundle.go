package handlers

// HandlerBundle groups the handler sets the route registry wires up.
type HandlerBundle struct {
	Availability *AvailabilityHandler
	Reservations *ReservationHandler
	Schedule     *ScheduleHandler
	Books        *BookHandler
}
