package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-admin/api/responses"
	"github.com/angelmondragon/storefront-admin/api/validators"
	"github.com/angelmondragon/storefront-admin/internal/customers"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
)

// CustomerAdmin is the customer model admin.
type CustomerAdmin = ModelAdmin[*customers.CustomerList, *customers.CustomerDTO, customers.CustomerInput, customerRequest]

// NewCustomerAdmin wires the customer views.
func NewCustomerAdmin(svc customers.Service, logg *logger.Logger) *CustomerAdmin {
	return newModelAdmin[*customers.CustomerList, *customers.CustomerDTO, customers.CustomerInput, customerRequest](customers.Admin, svc, logg)
}

type customerRequest struct {
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	Email      string  `json:"email" validate:"required"`
	Phone      string  `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Membership string  `json:"membership"`
}

func (r customerRequest) toInput() (customers.CustomerInput, error) {
	input := customers.CustomerInput{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      strings.TrimSpace(r.Phone),
		Membership: enums.Membership(strings.TrimSpace(r.Membership)),
	}
	if r.BirthDate != nil {
		birthDate, err := validators.ParseDate(*r.BirthDate, "birth_date")
		if err != nil {
			return customers.CustomerInput{}, err
		}
		input.BirthDate = birthDate
	}
	return input, nil
}

type membershipEditRequest struct {
	Changes []membershipChange `json:"changes" validate:"required,min=1,dive"`
}

type membershipChange struct {
	ID         uint   `json:"id" validate:"required"`
	Membership string `json:"membership" validate:"required"`
}

// CustomerListEdit saves the membership column edited in place on the changelist.
func CustomerListEdit(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer admin unavailable"))
			return
		}
		staffID, ok := staffFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload membershipEditRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		changes := make([]customers.MembershipChange, 0, len(payload.Changes))
		for _, c := range payload.Changes {
			changes = append(changes, customers.MembershipChange{ID: c.ID, Membership: c.Membership})
		}
		result, err := svc.UpdateMemberships(r.Context(), staffID, changes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"submitted": len(changes),
				"changed":   result.Changed,
			})
			logg.Info(ctx, "customer.list_edit")
		}
		responses.WriteWithMessages(w, http.StatusOK, result, result.Messages...)
	}
}
