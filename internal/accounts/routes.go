package accounts

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts/companies", h.ListCompanies)
	r.Get("/accounts/customers", h.ListCustomers)
	r.Get("/accounts/{type}/{key}/brands", h.ListBrands)
	r.Post("/accounts/companies/payments", h.CompanyPayment)
	r.Post("/accounts/customers/payments", h.CustomerPayment)
}
