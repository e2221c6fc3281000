package handler

import (
	"github.com/midnightbrew/cafe-api/internal/repository"
)

// AdminHandler bundles the repositories behind the dashboard API.  All
// of its routes sit behind RequireAuth + RequireAdmin; the handlers
// themselves do not re-check the role.
type AdminHandler struct {
	Users      *repository.UserRepo
	Categories *repository.CategoryRepo
	Menu       *repository.MenuItemRepo
	Bookings   *repository.BookingRepo
	Images     *repository.ImageRepo
}

func NewAdminHandler(users *repository.UserRepo, categories *repository.CategoryRepo, menu *repository.MenuItemRepo, bookings *repository.BookingRepo, images *repository.ImageRepo) *AdminHandler {
	return &AdminHandler{Users: users, Categories: categories, Menu: menu, Bookings: bookings, Images: images}
}
