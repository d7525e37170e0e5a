package handler

import (
	"helperhub/internal/usecase"
)

var (
	bookingHandler *BookingHandler
	messageHandler *MessageHandler
	supportHandler *SupportHandler
	ratingHandler  *RatingHandler
	helperHandler  *HelperHandler
	adminHandler   *AdminHandler
)

func Setup(
	bookingUseCase *usecase.BookingUseCase,
	chatUseCase *usecase.ChatUseCase,
	ratingUseCase *usecase.RatingUseCase,
	helperUseCase *usecase.HelperUseCase,
	adminUseCase *usecase.AdminUseCase,
) {
	bookingHandler = NewBookingHandler(bookingUseCase)
	messageHandler = NewMessageHandler(chatUseCase)
	supportHandler = NewSupportHandler(chatUseCase)
	ratingHandler = NewRatingHandler(ratingUseCase)
	helperHandler = NewHelperHandler(helperUseCase)
	adminHandler = NewAdminHandler(adminUseCase)
}

func GetBookingHandler() *BookingHandler {
	return bookingHandler
}

func GetMessageHandler() *MessageHandler {
	return messageHandler
}

func GetSupportHandler() *SupportHandler {
	return supportHandler
}

func GetRatingHandler() *RatingHandler {
	return ratingHandler
}

func GetHelperHandler() *HelperHandler {
	return helperHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}
