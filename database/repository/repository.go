package repository

import (
	bookingRepo "rentalwheels/database/repository/booking"
	carRepo "rentalwheels/database/repository/car"
)

// Re-export the CarRepository interface and constructor.
type CarRepository = carRepo.CarRepository

var NewMongoCarRepo = carRepo.NewMongoCarRepo

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo
